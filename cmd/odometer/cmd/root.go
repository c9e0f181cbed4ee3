// Package cmd implements the odometer CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (format, play, render, init).
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/odometer/cmd/odometer/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "odometer",
	Short: "Odometer - rolling digit displays for Go",
	Long: `Odometer animates numeric values the way a mechanical counter does:
every digit sits on a vertical strip and rolls to its next position
instead of snapping. This CLI hosts the library for quick experiments:
format a value into slot characters, play a transition in the terminal,
render one to an animated GIF, or scaffold a host project.

Use "odometer <command> --help" for more information about a command.`,
	Usage: "odometer <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// configPath is the value of the global --config flag; empty means discover
// odometer.yaml from the enclosing Go module root.
var configPath string

// Execute runs the CLI with the given arguments.
func Execute() error {
	args := os.Args[1:]

	// Handle no arguments
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags and extract --config
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("Odometer CLI version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			} else {
				return fmt.Errorf("--config requires a file path")
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				configPath = strings.TrimPrefix(arg, "--config=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		printHelp(rootCmd)
		fmt.Println()
		return fmt.Errorf("unknown command %q", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// loadResolved resolves configuration for a command run: an explicit
// --config file (or ODOMETER_CONFIG), else odometer.yaml discovered from
// the enclosing Go module root, else pure defaults.
func loadResolved() (*config.Resolved, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("ODOMETER_CONFIG")
	}
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return cfg.Resolve(filepath.Dir(path))
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		// Not inside a module; run on defaults.
		return (&config.Config{}).Resolve(".")
	}
	return config.Resolve(root)
}

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  --config FILE        Configuration file (default: odometer.yaml at the module root)")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  ODOMETER_CONFIG      Configuration file override (lower priority than --config)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  odometer format 1000520.98 -g -d 2        Print the formatted slot row")
	fmt.Println("  odometer play 120 135 128                 Animate transitions in the terminal")
	fmt.Println("  odometer render 41.50 42.50 -o roll.gif   Render a transition to GIF")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
