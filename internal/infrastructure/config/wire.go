package config

import "github.com/google/wire"

// ProviderSet Config ProviderSet
var ProviderSet = wire.NewSet(
	NewConfig,
)
