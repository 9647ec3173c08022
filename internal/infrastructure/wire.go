package infrastructure

import (
	"github.com/google/wire"
	"github.com/todonext/backend/internal/infrastructure/auth"
	"github.com/todonext/backend/internal/infrastructure/config"
	"github.com/todonext/backend/internal/infrastructure/feed"
	"github.com/todonext/backend/internal/infrastructure/storage"
	"github.com/todonext/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	websocket.ProviderSet,
	auth.ProviderSet,
	feed.ProviderSet,
	storage.ProviderSet,
)
