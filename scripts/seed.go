package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/adapters/database"
	"github.com/zatekoja/matchsafe/internal/adapters/search"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/matchsafe/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	profileRepo := database.NewProfileAdapter(pgClient)

	var searchRepo *search.TypesenseAdapter
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient, profileRepo)
		if err := searchRepo.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init search schema")
		}
	} else {
		log.Warn().Err(err).Msg("Typesense unavailable, seeding database only")
	}

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				match_analytics,
				feedback,
				profiles
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	now := time.Now()

	profiles := []entities.Profile{
		{
			ID: uuid.New().String(),
			Features: entities.Features{
				Interests:    []string{"chess", "hiking", "jazz"},
				Values:       []string{"honesty", "curiosity"},
				Demographics: map[string]string{"city": "lagos", "language": "en"},
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID: uuid.New().String(),
			Features: entities.Features{
				Interests:    []string{"football", "cooking"},
				Values:       []string{"loyalty"},
				Demographics: map[string]string{"city": "abuja", "language": "en"},
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID: uuid.New().String(),
			Flags: entities.FlagSet{
				"gambling": {Set: true, Severity: 0.9},
			},
			Features: entities.Features{
				Interests:    []string{"poker", "racing"},
				Demographics: map[string]string{"city": "lagos", "language": "en"},
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID: uuid.New().String(),
			Flags: entities.FlagSet{
				"suicidal": {Set: true, Severity: 0.7},
			},
			Features: entities.Features{
				Interests:    []string{"poetry", "painting"},
				Values:       []string{"empathy"},
				Demographics: map[string]string{"city": "ibadan", "language": "yo"},
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID: uuid.New().String(),
			Features: entities.Features{
				Interests:    []string{"photography", "hiking", "travel"},
				Values:       []string{"curiosity", "adventure"},
				Demographics: map[string]string{"city": "lagos", "language": "en"},
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID: uuid.New().String(),
			Features: entities.Features{
				Interests: []string{"gaming", "anime"},
				Demographics: map[string]string{
					"city": "port-harcourt", "language": "en",
				},
			},
			IsActive:  false, // inactive profiles must never be recommended
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	seeded := 0
	for i := range profiles {
		p := &profiles[i]
		if err := profileRepo.Create(ctx, p); err != nil {
			log.Error().Err(err).Str("profile_id", p.ID).Msg("failed to create profile")
			continue
		}
		seeded++

		if searchRepo != nil && p.IsActive {
			if err := searchRepo.Index(ctx, p); err != nil {
				log.Warn().Err(err).Str("profile_id", p.ID).Msg("failed to index profile")
			}
		}
	}

	log.Info().Int("seeded", seeded).Msg("seeding complete")
}
