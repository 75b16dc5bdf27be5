package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"sollotto/cmd"
	"sollotto/config"
	"sollotto/database"
	"sollotto/domain/entities"
	"sollotto/repository"

	log "github.com/sirupsen/logrus"
)

func main() {
	configureLogging()

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	// Check for account deposit subcommand
	if len(os.Args) > 1 && os.Args[1] == "deposit" {
		if err := handleDeposit(); err != nil {
			log.Fatal("Deposit error: ", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func configureLogging() {
	log.SetFormatter(&log.JSONFormatter{})
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("ENVIRONMENT") == "" {
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.DebugLevel)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: sollotto migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleDeposit credits a wallet's ledger account from the command line.
// Operator tooling for seeding player balances in non-production setups.
func handleDeposit() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: sollotto deposit wallet-address amount")
	}

	wallet := os.Args[2]
	amount, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", os.Args[3], err)
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepository(db.Pool)
	if err := accounts.Deposit(ctx, entities.Address(wallet), amount); err != nil {
		return err
	}

	balance, err := accounts.Balance(ctx, entities.Address(wallet))
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"wallet":  wallet,
		"balance": balance,
	}).Info("Deposit applied")
	return nil
}
