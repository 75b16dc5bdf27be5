package cmd

import (
	"context"
	"fmt"
	"time"

	"sollotto/api"
	"sollotto/config"
	"sollotto/database"
	"sollotto/domain/entities"
	"sollotto/domain/interfaces"
	"sollotto/domain/services"
	"sollotto/infrastructure"
	"sollotto/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsClient.Close()

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureLotteryEventStream(); err != nil {
		return fmt.Errorf("failed to ensure event stream: %w", err)
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNATSTransactionalPublisher(eventPublisher)
	})

	oracle := infrastructure.NewNATSOracle(natsClient)

	adminWallets := make([]entities.Address, 0, len(cfg.AdminWallets))
	for _, wallet := range cfg.AdminWallets {
		adminWallets = append(adminWallets, entities.Address(wallet))
	}

	settlement := services.NewSettlementService(uowFactory, oracle, cfg.PotID, adminWallets)
	pots := services.NewPotService(uowFactory, cfg.PotID, adminWallets)

	revealConsumer := infrastructure.NewRevealConsumer(natsClient, settlement)
	if err := revealConsumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reveal consumer: %w", err)
	}

	handler := api.NewHTTPHandler(settlement, pots, oracle)
	server := api.NewServer(cfg, handler)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("Service is running")

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}
