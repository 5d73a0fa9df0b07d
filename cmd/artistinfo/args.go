package main

import (
	"fmt"
	"os"

	"artistinfo/internal/config"
)

// cliArgs holds the per-invocation arguments that do not belong in the
// config file.
type cliArgs struct {
	Artist string
	MBID   string
	TagDir string
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > environment > config file > defaults
func parseArgs() (config.Config, cliArgs, string, error) {
	args := os.Args[1:]

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return config.Config{}, cliArgs{}, "", initConfigFile()
		}
	}

	var configPath string
	var cfg config.Config
	var cli cliArgs
	var err error

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, cliArgs{}, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err = config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, cliArgs{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--force":
			cfg.ForceLyrics = true

		case "--mbid":
			if i+1 >= len(args) {
				return config.Config{}, cliArgs{}, "", fmt.Errorf("--mbid requires an ID argument")
			}
			i++
			cli.MBID = args[i]

		case "--tag-lyrics", "-t":
			if i+1 >= len(args) {
				return config.Config{}, cliArgs{}, "", fmt.Errorf("--tag-lyrics requires a directory argument")
			}
			i++
			cli.TagDir = args[i]

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return config.Config{}, cliArgs{}, "", fmt.Errorf("unknown flag: %s", arg)
			}
			cli.Artist = arg
		}
	}

	if cli.Artist == "" && cli.TagDir == "" {
		return config.Config{}, cliArgs{}, "", fmt.Errorf("an artist name or --tag-lyrics directory is required")
	}

	return cfg, cli, configPath, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Available options:")
	fmt.Println("  timeline_providers: theaudiodb, discogs (tried in order)")
	fmt.Println("  cache_ttl_hours: how long lookups are cached (default: 6)")
	fmt.Println("  audiodb_api_key: TheAudioDB API key (free tier used if empty)")
	fmt.Println("  fanarttv_api_key: Fanart.tv personal API key (enables art galleries)")
	fmt.Println("  discogs_key / discogs_secret: Discogs API credentials")
	fmt.Println("  verbose: true/false (enable detailed logging)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("artistinfo - Fetch artist timelines, image galleries and synced lyrics")
	fmt.Println()
	fmt.Println("Usage: artistinfo [options] <artist name>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  --mbid <id>                MusicBrainz artist ID (skips name resolution)")
	fmt.Println("  -t, --tag-lyrics <dir>     Tag audio files under <dir> with synced lyrics")
	fmt.Println("  --force                    Overwrite lyrics tags that already exist")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./artistinfo.yaml")
	fmt.Println("  ~/.config/artistinfo/config.yaml")
	fmt.Println("  ~/.artistinfo.yaml")
	fmt.Println()
	fmt.Println("Credentials can also come from the environment:")
	fmt.Println("  ARTISTINFO_AUDIODB_KEY, ARTISTINFO_FANARTTV_KEY,")
	fmt.Println("  ARTISTINFO_DISCOGS_KEY, ARTISTINFO_DISCOGS_SECRET")
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Println("  Normal mode: detailed logs saved to:")
	fmt.Println("    ~/.local/share/artistinfo/logs/")
	fmt.Println("  Verbose mode: all output to stdout, no file logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Fetch timeline and images for an artist")
	fmt.Println("  artistinfo \"Daft Punk\"")
	fmt.Println()
	fmt.Println("  # Pin the lookup to a MusicBrainz ID")
	fmt.Println("  artistinfo --mbid 056e4f3e-d505-4dad-8ec1-d04f521cbb56 \"Daft Punk\"")
	fmt.Println()
	fmt.Println("  # Tag a music library with synced lyrics")
	fmt.Println("  artistinfo --tag-lyrics ~/Music")
	fmt.Println()
	fmt.Println("  # Create a config file to persist settings")
	fmt.Println("  artistinfo --init-config")
}
