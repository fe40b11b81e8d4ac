package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/evaluation"
	"github.com/zatekoja/matchsafe/pkg/config"
)

func main() {
	var scenariosPath string
	flag.StringVar(&scenariosPath, "scenarios", "config/golden_scenarios.json", "path to the golden scenario file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if _, err := os.Stat(scenariosPath); err != nil {
		// Allow running from the repository root or one level up
		if _, err := os.Stat("backend/" + scenariosPath); err == nil {
			scenariosPath = "backend/" + scenariosPath
		}
	}

	scenarios, err := evaluation.LoadGoldenScenarios(scenariosPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load golden scenarios")
	}
	if err := evaluation.ValidateGoldenScenarios(scenarios); err != nil {
		log.Fatal().Err(err).Msg("invalid golden scenarios")
	}

	safeguard := services.NewSafeguardService(
		services.DefaultRiskRules(cfg.Matching.MinFlagSeverity),
	)
	diversity := services.NewDiversityService()

	runner := evaluation.NewRunner(safeguard, diversity)
	runner.SetGuardrails(evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MaxCandidatePool:   cfg.Matching.CandidatePoolSize,
		MaxRecommendations: cfg.Matching.MaxRecommendations,
	}))
	summary, err := runner.Run(context.Background(), scenarios)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	// Output results as JSON
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	if summary.SafetyViolations > 0 {
		log.Error().Int("violations", summary.SafetyViolations).Msg("safety violations detected")
		os.Exit(1)
	}
}
