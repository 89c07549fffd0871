package http

import (
	"github.com/nats-io/nats.go"

	"github.com/rfarias/geocapture/internal/adapters/reportfs"
	"github.com/rfarias/geocapture/internal/adapters/valkey"
	"github.com/rfarias/geocapture/internal/core/ports"
	"github.com/rfarias/geocapture/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Captures *usecases.CaptureService
	Records  *usecases.RecordService
	Registry ports.SiteRegistry
	Renderer ports.Renderer
	Reports  *reportfs.Sink
	NATS     *nats.Conn
	Cache    *valkey.Cache
}
