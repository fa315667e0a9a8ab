package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/ZebulonRouseFrantzich/paqman/internal/bundle"
	"github.com/ZebulonRouseFrantzich/paqman/internal/config"
)

// runBundle handles the `paqman bundle` subcommand
func runBundle(args []string) error {
	// Parse flags
	showHelp := false
	var targetFlag, outputFlag string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--target", "-t":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			targetFlag = args[i]
		case "--output", "-o":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			outputFlag = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'paqman bundle --help' for usage", arg)
		}
	}

	if showHelp {
		printBundleHelp()
		return nil
	}

	if targetFlag == "" {
		return errors.New("no target directory; pass --target")
	}
	target, err := config.ExpandPath(targetFlag)
	if err != nil {
		return err
	}

	archivePath := outputFlag
	if archivePath == "" {
		archivePath = filepath.Join(target, bundle.ArchiveName)
	} else if archivePath, err = config.ExpandPath(archivePath); err != nil {
		return err
	}

	dirs, err := bundle.NewBundler().Create(target, archivePath)
	if errors.Is(err, bundle.ErrNoDirectories) {
		return fmt.Errorf("nothing to bundle: %s has no subdirectories (extract softpaqs first)", target)
	}
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	size := ""
	if st, err := os.Stat(archivePath); err == nil {
		size = " (" + humanize.Bytes(uint64(st.Size())) + ")"
	}
	fmt.Printf("Bundled %d directories into %s%s\n", len(dirs), archivePath, size)
	return nil
}

// printBundleHelp prints help for the bundle command
func printBundleHelp() {
	fmt.Println("Usage: paqman bundle [options]")
	fmt.Println()
	fmt.Println("Package the immediate subdirectories of a download directory into")
	fmt.Println("a single " + bundle.ArchiveName + ", replacing any previous archive.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help          Show this help message")
	fmt.Println("  -t, --target DIR    Directory whose subdirectories to package")
	fmt.Println("  -o, --output FILE   Archive path (default TARGET/" + bundle.ArchiveName + ")")
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println("  paqman bundle --target ./packs")
}
