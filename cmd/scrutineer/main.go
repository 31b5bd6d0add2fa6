// Command scrutineer audits election tallies for the twin-number
// pattern. It takes no arguments: tallies are read from the
// conventional data directories, the anomaly report is written next to
// them, and a run summary is printed to standard output.
//
// The only fatal conditions are a missing constituency tally directory
// and a report file that cannot be written; every per-area problem is
// skipped, counted, and reported in the summary instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ahrav/go-scrutineer/infrastructure/middleware"
	"github.com/ahrav/go-scrutineer/internal/application"
	"github.com/ahrav/go-scrutineer/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger, err := buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not build logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is unactionable

	config := application.DefaultAuditConfig()

	engine, err := application.NewEngine(config, logger, middleware.NewAuditMetrics())
	if err != nil {
		logger.Error("engine construction failed", zap.Error(err))
		return 1
	}

	fmt.Printf("Scanning data from %s and %s...\n", config.Source.MPDir, config.Source.PLDir)

	report, _, err := engine.Run(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrResultRootMissing) {
			fmt.Fprintf(os.Stderr, "Error: Directory %s not found.\n", config.Source.MPDir)
			return 1
		}
		logger.Error("audit run failed", zap.Error(err))
		return 1
	}

	if err := engine.WriteReport(report); err != nil {
		logger.Error("report write failed", zap.Error(err))
		return 1
	}

	application.PrintSummary(os.Stdout, report, engine.ReportPath())

	return 0
}

// buildLogger creates the production logger for the CLI. Log lines go
// to stderr so the stdout summary stays clean for piping.
func buildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
