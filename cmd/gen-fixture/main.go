package main

import (
	"flag"
	"os"

	"github.com/epwatch/rebelboard/internal/fixture"
)

// Default configuration constants.
const (
	defaultOutputDir = "data"
	defaultMEPs      = 120
	defaultSeed      = 42
)

func main() {
	var (
		outputDir = flag.String("out", defaultOutputDir, "Output directory for the generated data tree")
		meps      = flag.Int("meps", defaultMEPs, "Number of member records per dataset")
		seed      = flag.Int64("seed", defaultSeed, "Random seed for deterministic generation")
	)
	flag.Parse()

	gen := fixture.NewGenerator(fixture.Config{
		OutputDir:  *outputDir,
		MEPsPerSet: *meps,
		Seed:       *seed,
	})

	if err := gen.WriteTree(); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	os.Stdout.WriteString("Wrote fixture tree to " + *outputDir + " (run " + fixture.RunID() + ")\n")
}
