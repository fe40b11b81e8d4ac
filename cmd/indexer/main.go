package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/adapters/database"
	"github.com/zatekoja/matchsafe/internal/adapters/search"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/matchsafe/pkg/config"
)

const indexBatchSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	profileRepo := database.NewProfileAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("deleting profiles collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.ProfilesCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	adapter := search.NewTypesenseAdapter(tsClient, profileRepo)
	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	indexed := 0
	for offset := 0; ; offset += indexBatchSize {
		profiles, err := profileRepo.List(ctx, repositories.ProfileFilter{
			ActiveOnly: true,
			Limit:      indexBatchSize,
			Offset:     offset,
		})
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			break
		}

		for _, p := range profiles {
			if p == nil {
				continue
			}
			if err := adapter.Index(ctx, p); err != nil {
				log.Error().Err(err).Str("profile_id", p.ID).Msg("failed to index profile")
				continue
			}
			indexed++
		}

		if len(profiles) < indexBatchSize {
			break
		}
	}

	log.Info().Int("indexed", indexed).Msg("indexing complete")
	return nil
}
