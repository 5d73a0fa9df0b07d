package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"artistinfo/internal/config"
	"artistinfo/internal/logger"
	"artistinfo/internal/pipeline"
	"artistinfo/internal/progress"
	"artistinfo/internal/shutdown"
)

func main() {
	cfg, cli, configPath, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()
	defer sh.Shutdown()

	log := logger.New(cfg.Verbose)
	defer log.Close()

	if !cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("artistinfo_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if cfg.Verbose && configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	svcs := pipeline.NewServices(cfg, log)

	if cli.TagDir != "" {
		if err := runTagLyrics(sh, svcs, cfg, log, cli.TagDir); err != nil {
			log.Error("%v", err)
			os.Exit(1)
		}
		log.Info("=== Lyrics tagging completed ===")
		return
	}

	if err := runEnrich(sh, svcs, cli); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func runEnrich(sh *shutdown.Handler, svcs *pipeline.Services, cli cliArgs) error {
	report, err := svcs.EnrichArtist(sh.Context(), cli.Artist, cli.MBID, pipeline.Hooks{
		OnWarning: func(msg string) {
			fmt.Fprintf(os.Stderr, "[WARN] %s\n", msg)
		},
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(r pipeline.Report) {
	fmt.Printf("Artist: %s\n", r.Artist)
	if r.MBID != "" {
		fmt.Printf("MusicBrainz ID: %s\n", r.MBID)
	}

	if len(r.Timeline) > 0 {
		fmt.Println("\nTimeline:")
		for _, e := range r.Timeline {
			fmt.Printf("  %d  %s (%s)\n", e.Year, e.Title, e.Kind)
		}
	} else {
		fmt.Println("\nNo timeline information found.")
	}

	if r.Images.Empty() {
		fmt.Println("\nNo images found.")
		return
	}

	fmt.Println("\nImages:")
	printImageGroup("Thumbs", r.Images.Thumbs)
	printImageGroup("Backgrounds", r.Images.Backgrounds)
	printImageGroup("Banners", r.Images.Banners)
	printImageGroup("Logos", r.Images.Logos)
}

func printImageGroup(label string, urls []string) {
	if len(urls) == 0 {
		return
	}
	fmt.Printf("  %s (%d):\n", label, len(urls))
	for _, u := range urls {
		fmt.Printf("    %s\n", u)
	}
}

func runTagLyrics(sh *shutdown.Handler, svcs *pipeline.Services, cfg config.Config, log *logger.Logger, dir string) error {
	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnFilesFound: func(total int) {
			if !cfg.Verbose {
				bar = progress.New(total)
				log.SetProgressBar(true)
			}
		},
		OnProgress: func() {
			if bar != nil {
				bar.Increment()
			}
		},
	}

	err := svcs.TagLyrics(sh.Context(), dir, cfg.ForceLyrics, hooks)

	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}

	return err
}
