package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/bt/internal/core/agent"
	"github.com/zeusync/bt/internal/core/events/bus"
	"github.com/zeusync/bt/internal/core/observability/log"
	"github.com/zeusync/bt/internal/inspect"
)

// Config carries the host settings the providers need.
type Config struct {
	LogLevel    log.Level
	StepLimit   int
	InspectAddr string
}

// App is the wired host: a logger, the step event bus, the agent manager and
// an optional inspector.
type App struct {
	Logger    log.Log
	Events    bus.EventBus
	Manager   *agent.Manager
	Inspector *inspect.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEvents,
	ProvideManager,
	ProvideInspector,
	wire.Struct(new(App), "*"),
)

// ProvideLogger returns the process logger at the configured level.
func ProvideLogger(cfg Config) log.Log {
	logger := log.Provide()
	logger.SetLevel(cfg.LogLevel)
	return logger
}

func ProvideEvents() bus.EventBus {
	return bus.New()
}

func ProvideManager(logger log.Log, events bus.EventBus, cfg Config) *agent.Manager {
	return agent.NewManager(logger, events, cfg.StepLimit)
}

// ProvideInspector returns nil when no address is configured.
func ProvideInspector(m *agent.Manager, logger log.Log, cfg Config) *inspect.Server {
	if cfg.InspectAddr == "" {
		return nil
	}
	return inspect.NewServer(m, logger, cfg.InspectAddr)
}
