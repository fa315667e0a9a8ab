package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ZebulonRouseFrantzich/paqman/internal/config"
	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
)

// runConfigInit handles the `paqman config init` subcommand
func runConfigInit(args []string) error {
	// Parse flags
	showHelp := false
	force := false

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--force", "-f":
			force = true
		default:
			return fmt.Errorf("unknown option: %s\nRun 'paqman config init --help' for usage", arg)
		}
	}

	if showHelp {
		printConfigInitHelp()
		return nil
	}

	if _, err := os.Stat(config.DefaultFileName); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", config.DefaultFileName)
	}

	// Prefill the template with what this host reports so a generated
	// config works without edits on the machine that made it.
	seed := &config.Config{}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if info, err := platform.NewDetector().Detect(ctx); err == nil {
		if name, version, ok := info.VendorOS(); ok {
			seed.OS = name
			seed.OSVersion = version
		}
	}

	content := config.Generate(seed)
	if err := os.WriteFile(config.DefaultFileName, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.DefaultFileName, err)
	}

	fmt.Printf("Created %s\n", config.DefaultFileName)
	fmt.Println("Edit it to set your platforms and target directory, then run 'paqman sync'")
	return nil
}

// runConfigShow handles the `paqman config show` subcommand
func runConfigShow(args []string) error {
	// Parse flags
	showHelp := false
	var configFlag string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--config":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			configFlag = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'paqman config show --help' for usage", arg)
		}
	}

	if showHelp {
		printConfigShowHelp()
		return nil
	}

	cfg, path, err := loadConfig(configFlag)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Println("No configuration file found; using defaults")
	} else {
		fmt.Printf("Configuration: %s\n", path)
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printConfigInitHelp prints help for the config init command
func printConfigInitHelp() {
	fmt.Println("Usage: paqman config init [options]")
	fmt.Println()
	fmt.Println("Write a commented " + config.DefaultFileName + " template into the current")
	fmt.Println("directory, prefilled with the detected catalog OS when possible.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help    Show this help message")
	fmt.Println("  -f, --force   Overwrite an existing " + config.DefaultFileName)
}

// printConfigShowHelp prints help for the config show command
func printConfigShowHelp() {
	fmt.Println("Usage: paqman config show [options]")
	fmt.Println()
	fmt.Println("Evaluate the active configuration file and print the resulting")
	fmt.Println("settings as JSON.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help          Show this help message")
	fmt.Println("      --config FILE   Explicit " + config.DefaultFileName + " path")
}
