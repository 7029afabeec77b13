package setup

import (
	"fmt"

	"github.com/distrischool/identity/internal/audit"
	"github.com/distrischool/identity/internal/config"
	"github.com/distrischool/identity/internal/handler"
	"github.com/distrischool/identity/internal/middleware"
	"github.com/distrischool/identity/internal/password"
	"github.com/distrischool/identity/internal/service"
	"github.com/distrischool/identity/internal/storage/pg"
	"github.com/distrischool/identity/internal/token"
)

// Dependencies holds all initialized collaborators.
type Dependencies struct {
	Storage        *pg.Storage
	Publisher      *audit.Publisher
	Kafka          *audit.KafkaChannel
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies wires the service with explicit constructors. A
// malformed signing key fails here, before any request is served.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := token.New(cfg.JwtKey(), cfg.JwtTTL())
	if err != nil {
		return nil, fmt.Errorf("signing configuration: %w", err)
	}

	kafkaChannel, err := audit.NewKafkaChannel(cfg.Public.Kafka.Brokers)
	if err != nil {
		return nil, err
	}
	publisher := audit.NewPublisher(kafkaChannel, cfg.Public.Kafka.QueueSize)

	auth := service.NewAuth(storage, password.NewBcrypt(), tokens, publisher)

	h := handler.New(auth, cfg)
	authMw := middleware.NewAuth(tokens)

	return &Dependencies{
		Storage:        storage,
		Publisher:      publisher,
		Kafka:          kafkaChannel,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}

// Cleanup releases everything SetupDependencies acquired, in reverse order.
func (d *Dependencies) Cleanup() {
	d.Publisher.Close()
	d.Kafka.Close()
	d.Storage.Cleanup()
}
