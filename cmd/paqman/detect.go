package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
)

// runDetect handles the `paqman detect` subcommand
func runDetect(args []string) error {
	// Parse flags
	showHelp := false
	asJSON := false

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--json":
			asJSON = true
		default:
			return fmt.Errorf("unknown option: %s\nRun 'paqman detect --help' for usage", arg)
		}
	}

	if showHelp {
		printDetectHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect host: %w", err)
	}

	if asJSON {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encode host info: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("OS:           %s\n", info.OS)
	fmt.Printf("Architecture: %s", info.Arch)
	if info.ArchRaw != "" && info.ArchRaw != info.Arch {
		fmt.Printf(" (%s)", info.ArchRaw)
	}
	fmt.Println()
	if info.Product != "" {
		fmt.Printf("Product:      %s\n", info.Product)
	}
	if info.Build > 0 {
		fmt.Printf("Build:        %d\n", info.Build)
	}
	if name, version, ok := info.VendorOS(); ok {
		fmt.Printf("Catalog OS:   %s %s\n", name, version)
	} else {
		fmt.Println("Catalog OS:   (not a supported vendor host; pass --os/--osver to sync)")
	}

	return nil
}

// printDetectHelp prints help for the detect command
func printDetectHelp() {
	fmt.Println("Usage: paqman detect [options]")
	fmt.Println()
	fmt.Println("Report what paqman detects about this host: OS, architecture and,")
	fmt.Println("on Windows, the vendor catalog OS name and version the build maps to.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help   Show this help message")
	fmt.Println("      --json   Emit the detection result as JSON")
}
