package feed

import "github.com/google/wire"

// ProviderSet Feed 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewWebSocketPusher,
)
