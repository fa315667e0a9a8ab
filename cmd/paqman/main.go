package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0-dev"

func main() {
	// Handle subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version":
			fmt.Printf("paqman %s\n", Version)
			fmt.Println("Driver pack automation for vendor softpaq catalogs")
			return
		case "sync":
			// Handle paqman sync subcommand
			if err := runSync(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "list":
			// Handle paqman list subcommand
			if err := runList(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "status":
			// Handle paqman status subcommand
			if err := runStatus(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "detect":
			// Handle paqman detect subcommand
			if err := runDetect(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "setup":
			// Handle paqman setup subcommand
			if err := runSetup(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "bundle":
			// Handle paqman bundle subcommand
			if err := runBundle(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "config":
			// Handle paqman config subcommand
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "Error: config subcommand requires an action")
				fmt.Fprintln(os.Stderr, "Usage: paqman config init [options]")
				fmt.Fprintln(os.Stderr, "       paqman config show [options]")
				os.Exit(1)
			}
			switch os.Args[2] {
			case "init":
				if err := runConfigInit(os.Args[3:]); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
			case "show":
				if err := runConfigShow(os.Args[3:]); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
			default:
				fmt.Fprintf(os.Stderr, "Error: unknown config action: %s\n", os.Args[2])
				fmt.Fprintln(os.Stderr, "Usage: paqman config init [options]")
				fmt.Fprintln(os.Stderr, "       paqman config show [options]")
				os.Exit(1)
			}
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			fmt.Fprintln(os.Stderr, "Run 'paqman help' for usage")
			os.Exit(1)
		}
	}

	// Default: show help
	printUsage()
}

func printUsage() {
	fmt.Println("paqman - driver pack automation for vendor softpaq catalogs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  paqman sync    [options]   Query the catalog and download driver packs")
	fmt.Println("  paqman list    [options]   List catalog softpaqs for a platform")
	fmt.Println("  paqman status  [options]   Compare a target directory against the catalog")
	fmt.Println("  paqman detect  [options]   Show detected host platform information")
	fmt.Println("  paqman setup   [options]   Install the vendor client (cmsl)")
	fmt.Println("  paqman bundle  [options]   Archive extracted driver directories")
	fmt.Println("  paqman config  init|show   Manage the paqman.lua configuration")
	fmt.Println("  paqman version             Show version information")
	fmt.Println()
	fmt.Println("Run 'paqman <command> --help' for command options.")
	fmt.Println()
	fmt.Println("A typical provisioning run:")
	fmt.Println("  paqman setup")
	fmt.Println("  paqman sync --platform 8B41 --target D:\\DriverPacks --extract --compress")
}
