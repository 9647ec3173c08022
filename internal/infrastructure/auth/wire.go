package auth

import "github.com/google/wire"

// ProviderSet Auth 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewTokenManager,
)
