package bootstrap

import (
	"lipikar/internal/config"
	"lipikar/internal/notify"
	"lipikar/internal/ports"
	"lipikar/internal/providers/remote"
	"lipikar/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.SessionController
	Notifier   *notify.Notifier
	Config     config.Config
	// Supported is false when the host environment has no recognition
	// capability configured; checked once here, at startup.
	Supported bool
}

// Build wires all backend dependencies for the current runtime.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	engine := remote.NewEngine(remote.Config{
		EndpointURL: cfg.Engine.EndpointURL,
		APIKey:      cfg.Engine.APIKey,
	})
	notifier := notify.New(cfg.Notify.Enabled)

	controller := usecase.NewSessionController(
		engine,
		eventSink,
		notifier,
		usecase.Config{
			DefaultLanguage: cfg.Session.DefaultLanguage,
			SettleDelay:     cfg.Session.SettleDelay,
		},
	)

	return Services{
		Controller: controller,
		Notifier:   notifier,
		Config:     cfg,
		Supported:  engine.Supported(),
	}, nil
}
