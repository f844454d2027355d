package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/oaharvest/src/config"
	"github.com/username/oaharvest/src/database"
	"github.com/username/oaharvest/src/dataset"
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/services"
)

const (
	harvestFileName  = "all_harvested_articles.csv"
	enrichedFileName = "all_harvested_articles_enriched.csv"
)

// App bundles the wired-up services the commands run against.
type App struct {
	Config    *config.AppConfig
	Harvester services.Harvester
}

// Execute runs the CLI.
func Execute(app *App) error {
	rootCmd := &cobra.Command{
		Use:           "oaharvest",
		Short:         "Harvest openCost APC data via OAI-PMH and reconcile it into normalized cost records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newHarvestCmd(app))
	rootCmd.AddCommand(newValidateCmd(app))
	return rootCmd.Execute()
}

func newHarvestCmd(app *App) *cobra.Command {
	var integrate, output, printLinks bool

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Harvest all active sources and merge the results into the collected dataset files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarvest(cmd.Context(), app, services.HarvestOptions{
				ArchivePages:     output,
				PrintRecordLinks: printLinks,
			}, integrate)
		},
	}
	cmd.Flags().BoolVarP(&integrate, "integrate", "i", false,
		"integrate changes in harvested data into the existing collected files (default is a dry run)")
	cmd.Flags().BoolVarP(&output, "output", "o", false,
		"archive raw harvested pages in the harvest database")
	cmd.Flags().BoolVarP(&printLinks, "print-record-links", "l", false,
		"print OAI GetRecord links for all harvested articles")
	return cmd
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate harvested records against the openCost schema without processing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), app)
		},
	}
}

func runHarvest(ctx context.Context, app *App, opts services.HarvestOptions, integrate bool) error {
	sources, err := services.LoadSourceList(app.Config.HarvestListPath)
	if err != nil {
		return err
	}

	for _, source := range sources {
		if !source.Active {
			logger.L.Warn("Skipping inactive source", "url", source.BasicURL)
			continue
		}
		logger.L.Info("Starting harvest for source", "url", source.BasicURL)

		result, err := app.Harvester.Harvest(ctx, source, opts)
		if err != nil {
			logger.L.Error("Harvest failed for source", "url", source.BasicURL, "error", err)
			continue
		}

		directory := filepath.Join(app.Config.DataDir, source.Directory)
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", directory, err)
		}
		harvestPath := filepath.Join(directory, harvestFileName)
		enrichedPath := filepath.Join(directory, enrichedFileName)

		newArticles, err := dataset.IntegrateChanges(result.Publications, harvestPath, false, !integrate)
		if err != nil {
			return err
		}
		if _, err := dataset.IntegrateChanges(result.Publications, enrichedPath, true, !integrate); err != nil {
			return err
		}

		newArticlesPath := filepath.Join(directory,
			fmt.Sprintf("new_articles_%s.csv", time.Now().Format("2006_01_02")))
		if err := dataset.WriteNewArticles(newArticlesPath, newArticles); err != nil {
			return err
		}
		logger.L.Info("Source finished",
			"url", source.BasicURL, "harvested", result.RecordsHarvested,
			"publications", len(result.Publications), "new", len(newArticles),
			"newArticlesFile", newArticlesPath)

		if result.RunID > 0 {
			if err := database.FinishRun(result.RunID, result.RecordsHarvested, len(newArticles)); err != nil {
				logger.L.Error("Failed to close out harvest run", "runID", result.RunID, "error", err)
			}
		}
	}
	return nil
}

func runValidate(ctx context.Context, app *App) error {
	sources, err := services.LoadSourceList(app.Config.HarvestListPath)
	if err != nil {
		return err
	}

	for _, source := range sources {
		if !source.Active {
			logger.L.Warn("Skipping inactive source", "url", source.BasicURL)
			continue
		}
		if source.Type != "opencost" {
			logger.L.Warn("Skipping source - validation is only possible for openCost repositories",
				"url", source.BasicURL, "type", source.Type)
			continue
		}
		logger.L.Info("Starting validation run for source", "url", source.BasicURL)
		if _, err := app.Harvester.Harvest(ctx, source, services.HarvestOptions{ValidateOnly: true}); err != nil {
			logger.L.Error("Validation run failed for source", "url", source.BasicURL, "error", err)
		}
	}
	return nil
}

// Exit prints a CLI error and terminates with a nonzero status.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
