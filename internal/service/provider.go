// Package service wires the business layer together. Handlers reach the
// services through the Svc aggregate; the wiring order matters because
// relationship, presence and the realtime registry reference each other
// through narrow callback interfaces.
package service

import (
	"vega_social_server/internal/config"
	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/service/fanout"
	"vega_social_server/internal/service/presence"
	"vega_social_server/internal/service/realtime"
	"vega_social_server/internal/service/relationship"
)

// Services aggregates the service layer instances.
type Services struct {
	Relationship *relationship.Service
	Presence     *presence.Service
	Fanout       *fanout.Engine
	Registry     *realtime.Registry
	Gateway      *realtime.Gateway

	sweeper *relationship.Sweeper
	broker  fanout.Broker
}

// NewServices builds and cross-wires the full service graph:
//  1. registry and fan-out engine (delivery substrate)
//  2. broker per eventMode, installed on the engine
//  3. relationship state machine emitting through the engine
//  4. presence layer hooked into both the registry and the state machine
//  5. background request expiry sweeper
func NewServices(repos *repository.Repositories) *Services {
	conf := config.GetConfig()

	registry := realtime.NewRegistry(conf.OfflineDebounce())
	engine := fanout.NewEngine(repos, registry)

	var broker fanout.Broker
	if conf.KafkaConfig.EventMode == "kafka" {
		broker = fanout.NewKafkaBroker(&conf.KafkaConfig, engine.DeliverLocal)
	} else {
		broker = fanout.NewChannelBroker(engine.DeliverLocal)
	}
	engine.UseBroker(broker)
	go broker.Start()

	relationshipSvc := relationship.NewService(repos, engine, conf.RequestTTL())
	presenceSvc := presence.NewService(repos, relationshipSvc, engine, registry)
	relationshipSvc.SetPresenceHook(presenceSvc)
	registry.SetHooks(presenceSvc)

	sweeper := relationship.NewSweeper(relationshipSvc, conf.SweepInterval())
	sweeper.Start()

	return &Services{
		Relationship: relationshipSvc,
		Presence:     presenceSvc,
		Fanout:       engine,
		Registry:     registry,
		Gateway:      realtime.NewGateway(registry),
		sweeper:      sweeper,
		broker:       broker,
	}
}

// Close stops the background workers. Called during graceful shutdown.
func (s *Services) Close() {
	s.sweeper.Stop()
	s.broker.Close()
}

// Svc is the global Services instance used by the handler layer.
var Svc *Services

// InitServices initializes Svc. Call from main after the DAO layer is up.
func InitServices(repos *repository.Repositories) {
	Svc = NewServices(repos)
}
