package main

import (
	"fmt"
	"os"

	"github.com/larsks/crmpro/internal/content"
	"github.com/larsks/crmpro/internal/landing"
	"github.com/larsks/crmpro/internal/mqtt"
	"github.com/larsks/crmpro/internal/tui"
	"github.com/larsks/crmpro/internal/version"
	"github.com/spf13/pflag"
)

func main() {
	var (
		versionFlag = pflag.Bool("version", false, "Show version and exit")
		configType  = pflag.String("type", "", "Configuration type: server, cursor, or content")
		configFile  = pflag.String("config", "", "File to validate")
		helpFlag    = pflag.BoolP("help", "h", false, "Show help")
	)

	pflag.Parse()

	if *versionFlag {
		version.ShowVersion()
		os.Exit(0)
	}

	if *helpFlag {
		usage()
		os.Exit(0)
	}

	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --config flag is required\n\n")
		usage()
		os.Exit(1)
	}

	if *configType == "" {
		fmt.Fprintf(os.Stderr, "Error: --type flag is required\n\n")
		usage()
		os.Exit(1)
	}

	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file %s does not exist\n", *configFile)
		os.Exit(1)
	}

	var err error
	switch *configType {
	case "server":
		err = validateServerConfig(*configFile)
	case "cursor":
		err = validateCursorConfig(*configFile)
	case "content":
		err = validateContent(*configFile)
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown configuration type '%s'. Must be 'server', 'cursor', or 'content'\n", *configType)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ %s is valid for %s\n", *configFile, *configType)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s --type TYPE --config FILE\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "A tool for validating CRM Pro configuration and content files.\n\n")

	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()

	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s --type server --config server.toml\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --type cursor --config cursor.toml\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --type content --config content.yaml\n", os.Args[0])
}

func validateServerConfig(configFile string) error {
	cfg := landing.NewConfig()
	cfg.ConfigFile = configFile

	// Add flags but don't parse them - we just need them for the config loader
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	cfg.AddFlags(fs)

	if err := cfg.LoadConfigWithFlagSet(fs); err != nil {
		return fmt.Errorf("failed to load server configuration: %v", err)
	}

	if cfg.ListenPort <= 0 {
		return fmt.Errorf("listen port must be between 1 and 65535, got %d", cfg.ListenPort)
	}

	if cfg.MQTTServer != "" {
		if _, err := mqtt.ParseServerURL(cfg.MQTTServer); err != nil {
			return err
		}
	}

	if cfg.ContentFile != "" {
		if err := validateContent(cfg.ContentFile); err != nil {
			return err
		}
	}

	return nil
}

func validateCursorConfig(configFile string) error {
	cfg := tui.NewConfig()
	cfg.ConfigFile = configFile

	fs := pflag.NewFlagSet("cursor", pflag.ContinueOnError)
	cfg.AddFlags(fs)

	if err := cfg.LoadConfigWithFlagSet(fs); err != nil {
		return fmt.Errorf("failed to load cursor configuration: %v", err)
	}

	if cfg.ThemeFile == "" {
		return fmt.Errorf("theme-file is required")
	}

	return nil
}

func validateContent(path string) error {
	site, err := content.Load(path)
	if err != nil {
		return err
	}

	if len(site.Features) == 0 {
		return fmt.Errorf("content defines no features")
	}

	return nil
}
