// Command areamap builds a small area-of-interest GeoPackage from PLSS
// township/range selections: it selects townships and sections by their
// PLSS identifiers, clips parcel layers against the dissolved selection
// and writes everything into one output package, then opens it in QGIS.
package main

import (
	"flag"
	"os"

	"github.com/jmcrawford/areamap/internal/config"
	"github.com/jmcrawford/areamap/internal/logger"
	"github.com/jmcrawford/areamap/internal/pipeline"
	"github.com/jmcrawford/areamap/internal/project"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	flag.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "selection file in the current directory")
	flag.StringVar(&cfg.OutputName, "output", cfg.OutputName, "output GeoPackage name (default: derived from the area label)")
	flag.StringVar(&cfg.TownshipPath, "townships", cfg.TownshipPath, "townships GeoPackage")
	flag.StringVar(&cfg.SectionPath, "sections", cfg.SectionPath, "sections GeoPackage")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flag.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log JSON instead of console output")
	noLaunch := flag.Bool("no-launch", false, "skip copying the template project and launching QGIS")
	flag.Parse()
	if *noLaunch {
		cfg.Launch = false
	}

	log := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   !cfg.LogJSON,
		Component: "areamap",
	}, os.Stdout)

	sum, err := pipeline.New(cfg, log).Run()
	if err != nil {
		log.Error().Err(err).Msg("area map build failed")
		return 1
	}
	log.Info().Str("output", sum.Output).Msg("area map written")

	if cfg.Launch {
		if err := project.CopyTemplate(cfg.TemplateProject, cfg.ProjectDest); err != nil {
			log.Error().Err(err).Msg("template project not copied")
		} else {
			log.Info().Str("project", cfg.ProjectDest).Msg("copied template project")
		}
		if err := project.Launch(cfg.QGISBin, sum.Output); err != nil {
			log.Warn().Err(err).Msg("could not launch QGIS")
		}
	}
	return 0
}
