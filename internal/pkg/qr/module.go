package qr

import (
	"go.uber.org/fx"

	"github.com/polkiloo/giftpromo/internal/config"
)

// Module provides the QR renderer sized from configuration.
var Module = fx.Provide(func(cfg *config.Config) *Renderer {
	return NewRenderer(cfg.QRSize)
})
