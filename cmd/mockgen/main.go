package main

import (
	"flag"
	"fmt"
	"mlbvalue-mcp/cmd/mockgen/engine"
	"os"
	"time"
)

func main() {
	scenario := flag.String("scenario", "market", "Scenario to generate: market, chaos, inflated")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	outDir := flag.String("out", "./data", "Output directory for the mock data file")
	count := flag.Int("count", 600, "Number of players to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	aliases := flag.Bool("aliases", false, "Write raw collection headers and numeric position codes")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Seed:         *seed,
		Aliases:      *aliases,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, cfg.Seed, *outDir)

	path, err := engine.Save(*outDir, engine.Generate(cfg), cfg.Aliases)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done:", path)
}
