package todo

import "github.com/google/wire"

// ProviderSet Todo 应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewService,
)
