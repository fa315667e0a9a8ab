package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ZebulonRouseFrantzich/paqman/internal/cmsl"
	"github.com/ZebulonRouseFrantzich/paqman/internal/softpaq"
)

// runList handles the `paqman list` subcommand
func runList(args []string) error {
	// Parse flags
	showHelp := false
	long := false
	var platformFlag, osFlag, osverFlag, configFlag string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--long", "-l":
			long = true
		case "--platform", "-p":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			platformFlag = args[i]
		case "--os":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			osFlag = args[i]
		case "--osver":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			osverFlag = args[i]
		case "--config":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			configFlag = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'paqman list --help' for usage", arg)
		}
	}

	if showHelp {
		printListHelp()
		return nil
	}

	cfg, _, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	initLogging(cfg)

	platforms, osName, osVersion, err := resolveCatalogCoords(platformFlag, osFlag, osverFlag, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := runContext(cfg)
	defer cancel()

	catalog := newCatalog(cfg)

	for _, p := range platforms {
		listing, err := catalog.List(ctx, cmsl.Query{Platform: p, OS: osName, OSVersion: osVersion})
		if err != nil {
			return fmt.Errorf("query catalog for %s: %w", p, err)
		}

		if len(platforms) > 1 {
			fmt.Printf("Platform %s:\n", p)
		}
		if len(listing.IDs) == 0 {
			fmt.Println("No driver packs found")
			continue
		}
		if listing.Scraped {
			fmt.Println("(structured listing unavailable, scraped legacy report)")
		}

		if !long {
			for _, id := range listing.IDs {
				fmt.Println(id)
			}
			continue
		}

		for _, id := range listing.IDs {
			meta, err := catalog.Metadata(ctx, id)
			if err != nil {
				fmt.Printf("%-10s (metadata unavailable)\n", id)
				continue
			}
			date := softpaq.FormatReleaseDate(meta.ReleaseDate)
			size := ""
			if meta.SizeBytes > 0 {
				size = humanize.Bytes(uint64(meta.SizeBytes))
			}
			fmt.Printf("%-10s %s - %s (%s) %s\n", meta.ID, meta.Title, meta.Version, date, size)
		}
	}

	return nil
}

// printListHelp prints help for the list command
func printListHelp() {
	fmt.Println("Usage: paqman list [options]")
	fmt.Println()
	fmt.Println("Show the softpaq identifiers the vendor catalog lists for a")
	fmt.Println("platform, without downloading anything.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help          Show this help message")
	fmt.Println("  -p, --platform ID   Hardware platform identifier (e.g. 8B41)")
	fmt.Println("      --os NAME       Catalog OS name (win10, win11)")
	fmt.Println("      --osver LABEL   Catalog OS version label (e.g. 22H2)")
	fmt.Println("  -l, --long          Include title, version, date and size per entry")
	fmt.Println("      --config FILE   Explicit paqman.lua path")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  paqman list --platform 8B41")
	fmt.Println("  paqman list --platform 8B41 --os win11 --osver 24H2 --long")
}
