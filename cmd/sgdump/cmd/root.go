// Package cmd implements the sgdump CLI commands.
//
// The root command dispatches to subcommands (dump, update, serve), each
// operating on one AVG document.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-drift/scenegraph/pkg/sg"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = &Command{
	Name:  "sgdump",
	Short: "sgdump - inspect scene graphs built from AVG documents",
	Long: `sgdump inflates an AVG vector graphic into a retained scene graph and
prints the resulting layers and nodes, the layers touched by parameter
changes, or serves them over HTTP for live inspection.

Use "sgdump <command> --help" for more information about a command.`,
	Usage: "sgdump <command> [flags] <file>",
}

// Commands registered with the CLI, in registration order.
var (
	commands    = make(map[string]*Command)
	commandList []*Command
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	commandList = append(commandList, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags
	var filteredArgs []string
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("sgdump version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--verbose":
			sg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		default:
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
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
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

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range commandList {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  --verbose            Log scene graph construction to stderr")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  sgdump.yaml next to the document sets allowLayers, debugAddr and parameters.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sgdump dump --layers icon.json              Print the layer tree")
	fmt.Println("  sgdump update --set alpha=0.5 icon.json     Show the layers a change touches")
	fmt.Println("  sgdump serve --addr localhost:9999 icon.json")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
