package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ZebulonRouseFrantzich/paqman/internal/bundle"
	"github.com/ZebulonRouseFrantzich/paqman/internal/client"
	"github.com/ZebulonRouseFrantzich/paqman/internal/cmsl"
	"github.com/ZebulonRouseFrantzich/paqman/internal/config"
	"github.com/ZebulonRouseFrantzich/paqman/internal/logging"
	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
	"github.com/ZebulonRouseFrantzich/paqman/internal/provision"
	"github.com/ZebulonRouseFrantzich/paqman/internal/run"
	"github.com/ZebulonRouseFrantzich/paqman/internal/softpaq"
)

// runSync handles the `paqman sync` subcommand
func runSync(args []string) error {
	// Parse flags
	showHelp := false
	extract := false
	install := false
	compress := false
	strict := false
	dryRun := false
	var platformFlag, targetFlag, osFlag, osverFlag, configFlag string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--extract", "-e":
			extract = true
		case "--install", "-i":
			install = true
		case "--compress", "-c":
			compress = true
		case "--strict":
			strict = true
		case "--dry-run", "-n":
			dryRun = true
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
			return fmt.Errorf("unknown option: %s\nRun 'paqman sync --help' for usage", arg)
		}
	}

	if showHelp {
		printSyncHelp()
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

	req := provision.Request{
		OS:          osName,
		OSVersion:   osVersion,
		TargetDir:   target,
		Extract:     extract || cfg.Steps.Extract,
		Install:     install || cfg.Steps.Install,
		Compress:    compress || cfg.Steps.Compress,
		ExtractArgs: cfg.Client.ExtractArgs,
		InstallArgs: cfg.Client.InstallArgs,
	}

	ctx, cancel := runContext(cfg)
	defer cancel()

	catalog := newCatalog(cfg)

	if dryRun {
		return printSyncPlan(ctx, catalog, platforms, req)
	}

	svc := provision.NewService(catalog, run.NewRunner(), bundle.NewBundler(), provision.RealClock{}, logging.Default())

	totalItems := 0
	totalFailures := 0
	for _, p := range platforms {
		req.Platform = p
		result, err := svc.Execute(ctx, req)
		if result != nil {
			fmt.Print(provision.FormatRunReport(result))
			totalItems += len(result.Items)
			totalFailures += result.Failures()
		}
		if err != nil {
			return err
		}
	}

	if strict && totalFailures > 0 {
		return fmt.Errorf("%d of %d softpaqs failed", totalFailures, totalItems)
	}
	return nil
}

// printSyncPlan resolves the catalog and expected filenames without
// downloading anything.
func printSyncPlan(ctx context.Context, catalog cmsl.Catalog, platforms []string, req provision.Request) error {
	fmt.Println("Dry run - nothing will be downloaded")

	namer := softpaq.NewNamer()
	for _, p := range platforms {
		listing, err := catalog.List(ctx, cmsl.Query{Platform: p, OS: req.OS, OSVersion: req.OSVersion})
		if err != nil {
			return fmt.Errorf("query catalog: %w", err)
		}

		fmt.Printf("\nPlatform %s: %d softpaqs -> %s\n", p, len(listing.IDs), req.TargetDir)
		if listing.Scraped {
			fmt.Println("  (structured listing unavailable, scraped legacy report)")
		}
		for _, id := range listing.IDs {
			meta, err := catalog.Metadata(ctx, id)
			if err != nil {
				fmt.Printf("  %s  (metadata unavailable)\n", id)
				continue
			}
			name, err := namer.Filename(meta)
			if err != nil {
				fmt.Printf("  %s  (%v)\n", id, err)
				continue
			}
			fmt.Printf("  %s  %s\n", id, name)
		}
	}

	fmt.Printf("\nSteps: extract=%t install=%t compress=%t\n", req.Extract, req.Install, req.Compress)
	return nil
}

// printSyncHelp prints help for the sync command
func printSyncHelp() {
	fmt.Println("Usage: paqman sync [options]")
	fmt.Println()
	fmt.Println("Query the vendor catalog for a platform and download every driver")
	fmt.Println("pack it lists, with optional extraction, install and packaging.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help          Show this help message")
	fmt.Println("  -p, --platform ID   Hardware platform identifier (e.g. 8B41)")
	fmt.Println("  -t, --target DIR    Download directory (created if missing)")
	fmt.Println("      --os NAME       Catalog OS name (win10, win11)")
	fmt.Println("      --osver LABEL   Catalog OS version label (e.g. 22H2)")
	fmt.Println("  -e, --extract       Silently extract every installer afterwards")
	fmt.Println("  -i, --install       Silently run every installer afterwards")
	fmt.Println("  -c, --compress      Archive extracted directories into DriverPack.zip")
	fmt.Println("      --strict        Exit non-zero when any softpaq fails")
	fmt.Println("  -n, --dry-run       Show what would be downloaded, change nothing")
	fmt.Println("      --config FILE   Explicit paqman.lua path")
	fmt.Println()
	fmt.Println("Omitted flags fall back to paqman.lua, then to detected host values.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  paqman sync --platform 8B41 --target ./packs")
	fmt.Println("  paqman sync --platform 8B41 --target ./packs --extract --compress")
	fmt.Println("  paqman sync --target D:\\DriverPacks      (platform from paqman.lua)")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Compression without extraction is skipped with a warning")
	fmt.Println("  - Per-softpaq failures do not stop the run (see --strict)")
	fmt.Println("  - The catalog listing is saved as 'Available Driver Packs.log'")
}

// loadConfig loads the optional paqman.lua. An empty explicit path
// searches the default locations; having no config file at all is fine.
func loadConfig(explicit string) (*config.Config, string, error) {
	path, err := config.Locate(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return &config.Config{}, "", nil
	}

	parser := config.NewParser(platform.NewDetector())
	cfg, err := parser.ParseFile(context.Background(), path)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %s", path, config.FormatError(err, false))
	}

	if raw, err := os.ReadFile(path); err == nil {
		if findings := config.DetectSensitiveData(string(raw)); len(findings) > 0 {
			fmt.Fprint(os.Stderr, config.FormatSensitiveDataWarning(findings))
		}
	}

	return cfg, path, nil
}

// initLogging configures the process logger from the config file.
func initLogging(cfg *config.Config) {
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// resolveCatalogCoords merges flags, config and host detection into the
// catalog coordinates for a run. Flags win, then the config file, then
// what the host reports.
func resolveCatalogCoords(platformFlag, osFlag, osverFlag string, cfg *config.Config) ([]string, string, string, error) {
	var platforms []string
	switch {
	case platformFlag != "":
		platforms = []string{platformFlag}
	case len(cfg.Platforms) > 0:
		platforms = cfg.Platforms
	default:
		return nil, "", "", fmt.Errorf("no platform identifier; pass --platform or set platforms in %s", config.DefaultFileName)
	}

	osName := osFlag
	if osName == "" {
		osName = cfg.OS
	}
	osVersion := osverFlag
	if osVersion == "" {
		osVersion = cfg.OSVersion
	}

	if osName == "" || osVersion == "" {
		if info, err := platform.NewDetector().Detect(context.Background()); err == nil {
			if name, version, ok := info.VendorOS(); ok {
				if osName == "" {
					osName = name
				}
				if osVersion == "" {
					osVersion = version
				}
			}
		}
	}

	// Last resort so a bare `paqman sync --platform X --target Y` works
	// from any admin host.
	if osName == "" {
		osName = cmsl.DefaultOS
	}
	if osVersion == "" {
		osVersion = cmsl.DefaultOSVersion
	}

	return platforms, osName, osVersion, nil
}

// resolveTarget picks the download directory from flag or config and
// expands a leading tilde.
func resolveTarget(targetFlag string, cfg *config.Config) (string, error) {
	target := targetFlag
	if target == "" {
		target = cfg.Target
	}
	if target == "" {
		return "", fmt.Errorf("no target directory; pass --target or set target in %s", config.DefaultFileName)
	}
	return config.ExpandPath(target)
}

// newCatalog builds the vendor client wrapper. An explicitly configured
// binary wins; otherwise a paqman-managed install is preferred over
// whatever PATH happens to find.
func newCatalog(cfg *config.Config) *cmsl.Client {
	bin := cfg.Client.Bin
	if bin == "" {
		bin = managedClientPath()
	}
	return cmsl.NewClient(bin, cfg.Client.Proxy)
}

// managedClientPath returns the setup-installed client binary, or empty
// when none is installed (cmsl.NewClient then resolves via PATH).
func managedClientPath() string {
	dir, err := paqmanDir()
	if err != nil {
		return ""
	}
	info, err := client.DetectPlatform()
	if err != nil {
		return ""
	}
	mgr, err := client.NewManager(client.Config{PaqmanDir: dir, PlatformInfo: info})
	if err != nil {
		return ""
	}
	if mgr.IsInstalled() {
		return mgr.BinaryPath()
	}
	return ""
}

// runContext bounds a catalog run with the configured client timeout.
func runContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	if m := cfg.Client.TimeoutMinutes; m > 0 {
		return context.WithTimeout(context.Background(), time.Duration(m)*time.Minute)
	}
	return context.WithCancel(context.Background())
}
