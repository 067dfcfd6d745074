package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/convoflow/crm-bridge-go/internal/admin"
	"github.com/convoflow/crm-bridge-go/internal/config"
	"github.com/convoflow/crm-bridge-go/internal/database"
	"github.com/convoflow/crm-bridge-go/internal/model"
	"github.com/convoflow/crm-bridge-go/internal/service"
)

func main() {
	seedLocation := flag.String("seed-location", "", "create an account for this CRM location id after migrating")
	seedName := flag.String("seed-name", "", "display name for the seeded account")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required to run migrations")
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Str("driver", db.Driver()).Msg("database migrated")

	if *seedLocation == "" {
		return
	}

	// Seeding goes through the privileged factory so it exercises the same
	// backend the server uses.
	factory := admin.NewFactory(func() (admin.Store, error) {
		return admin.Open(cfg)
	})
	accounts := service.NewAccountService(factory)

	params := model.CreateAccountParams{CRMLocationID: *seedLocation}
	if *seedName != "" {
		params.Name = seedName
	}

	account, err := accounts.CreateAccount(ctx, params, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed account")
	}
	log.Info().Str("accountId", account.ID).Str("locationId", account.CRMLocationID).Msg("account seeded")
}
