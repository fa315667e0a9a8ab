package main

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/paqman/internal/bundle"
	"github.com/ZebulonRouseFrantzich/paqman/internal/logging"
	"github.com/ZebulonRouseFrantzich/paqman/internal/provision"
	"github.com/ZebulonRouseFrantzich/paqman/internal/run"
)

// runStatus handles the `paqman status` subcommand
func runStatus(args []string) error {
	// Parse flags
	showHelp := false
	var platformFlag, targetFlag, osFlag, osverFlag, configFlag string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--platform", "-p":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			platformFlag = args[i]
		case "--target", "-t":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			targetFlag = args[i]
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
			return fmt.Errorf("unknown option: %s\nRun 'paqman status --help' for usage", arg)
		}
	}

	if showHelp {
		printStatusHelp()
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

	target, err := resolveTarget(targetFlag, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := runContext(cfg)
	defer cancel()

	svc := provision.NewService(newCatalog(cfg), run.NewRunner(), bundle.NewBundler(), provision.RealClock{}, logging.Default())

	outOfSync := 0
	for _, p := range platforms {
		report, err := svc.Status(ctx, provision.StatusRequest{
			Platform:  p,
			OS:        osName,
			OSVersion: osVersion,
			TargetDir: target,
		})
		if err != nil {
			return fmt.Errorf("check status for %s: %w", p, err)
		}

		fmt.Print(provision.FormatStatusReport(report))
		if !report.InSync() {
			outOfSync++
		}
	}

	if outOfSync > 0 {
		return fmt.Errorf("%d platform(s) out of sync; run 'paqman sync'", outOfSync)
	}
	return nil
}

// printStatusHelp prints help for the status command
func printStatusHelp() {
	fmt.Println("Usage: paqman status [options]")
	fmt.Println()
	fmt.Println("Compare a download directory against the current vendor catalog")
	fmt.Println("and report which softpaqs are missing or stale.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help          Show this help message")
	fmt.Println("  -p, --platform ID   Hardware platform identifier (e.g. 8B41)")
	fmt.Println("  -t, --target DIR    Directory a previous sync downloaded into")
	fmt.Println("      --os NAME       Catalog OS name (win10, win11)")
	fmt.Println("      --osver LABEL   Catalog OS version label (e.g. 22H2)")
	fmt.Println("      --config FILE   Explicit paqman.lua path")
	fmt.Println()
	fmt.Println("Exits non-zero when the directory is out of sync.")
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println("  paqman status --platform 8B41 --target ./packs")
}
