package main

import (
	"os"

	"github.com/username/oaharvest/src/cmd"
	"github.com/username/oaharvest/src/config"
	"github.com/username/oaharvest/src/database"
	"github.com/username/oaharvest/src/logger"
	"github.com/username/oaharvest/src/processors"
	"github.com/username/oaharvest/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel, config.Cfg.LogFormat)
	logger.L.Info("oaharvest starting...")

	logger.L.Info("Initializing harvest archive...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)

	var rateSource processors.RateSource
	if config.Cfg.RatesProvider == "file" {
		fileSource, err := services.NewFileRateSource(config.Cfg.HistoricalRatesPath)
		if err != nil {
			logger.L.Error("Failed to load historical rates", "error", err)
			os.Exit(1)
		}
		rateSource = fileSource
	} else {
		rateSource = services.NewECBRateSource(config.Cfg.ECBBaseURL, config.Cfg.HTTPTimeout)
	}

	converter := processors.NewConverter(rateSource)
	reconciler := processors.NewReconciler(converter)
	validator := services.NewWellFormedValidator()
	harvester := services.NewHarvestService(
		reconciler, validator,
		config.Cfg.HTTPTimeout, config.Cfg.RequestInterval, config.Cfg.RequestBurst,
		config.Cfg.UserAgent,
	)

	app := &cmd.App{Config: config.Cfg, Harvester: harvester}
	if err := cmd.Execute(app); err != nil {
		cmd.Exit(err)
	}
}
