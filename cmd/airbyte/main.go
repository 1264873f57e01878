package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Javier162380/airbyte/pkg/connector/registry"
	"github.com/Javier162380/airbyte/pkg/logger"
	"github.com/Javier162380/airbyte/pkg/runner"

	// Import all available connectors to register them
	_ "github.com/Javier162380/airbyte/pkg/connector/destinations/jsonlfile"
	_ "github.com/Javier162380/airbyte/pkg/connector/sources/jsonlfile"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if err := logger.Init(logger.Config{Level: logLevel, Encoding: "json"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	root := &cobra.Command{
		Use:   "airbyte",
		Short: "Airbyte connector runner",
		Long: `Runs a data-integration connector over the line-delimited JSON protocol.
Each invocation executes exactly one command (spec, check, discover, read or
write) against a registered source or destination connector and writes
protocol messages to standard output, one JSON object per line.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("airbyte-runner v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available connectors",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available Source Connectors:")
			for _, source := range registry.ListSources() {
				fmt.Printf("  - %s\n", source)
			}
			fmt.Println("\nAvailable Destination Connectors:")
			for _, destination := range registry.ListDestinations() {
				fmt.Printf("  - %s\n", destination)
			}
		},
	})

	root.AddCommand(
		newIntegrationCommand(runner.CommandSpec, "Emit the connector specification", false, false),
		newIntegrationCommand(runner.CommandCheck, "Check the connection configuration", true, false),
		newIntegrationCommand(runner.CommandDiscover, "Discover the streams the source offers", true, false),
		newIntegrationCommand(runner.CommandRead, "Read records from the source", true, true),
		newIntegrationCommand(runner.CommandWrite, "Write records to the destination", true, true),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// newIntegrationCommand builds one protocol subcommand. The CLI layer only
// parses flags into an IntegrationConfig; all semantics live in the runner.
func newIntegrationCommand(command runner.Command, short string, needsConfig, needsCatalog bool) *cobra.Command {
	var connectorName, configPath, catalogPath, statePath string

	cmd := &cobra.Command{
		Use:   string(command),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := resolveRole(command, connectorName)
			if err != nil {
				return err
			}
			r, err := runner.New(role)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), logger.ConnectorKey, connectorName)
			return r.Run(ctx, runner.IntegrationConfig{
				Command:     command,
				ConfigPath:  configPath,
				CatalogPath: catalogPath,
				StatePath:   statePath,
			})
		},
	}

	cmd.Flags().StringVar(&connectorName, "connector", "", "Registered connector name (required)")
	_ = cmd.MarkFlagRequired("connector")

	if needsConfig {
		cmd.Flags().StringVar(&configPath, "config", "", "Path to the connection configuration JSON file (required)")
		_ = cmd.MarkFlagRequired("config")
	}
	if needsCatalog {
		cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the configured catalog JSON file (required)")
		_ = cmd.MarkFlagRequired("catalog")
	}
	if command == runner.CommandRead {
		cmd.Flags().StringVar(&statePath, "state", "", "Path to the state JSON file (optional)")
	}

	return cmd
}

// resolveRole picks the connector role for a command. READ and DISCOVER
// need a source, WRITE a destination; SPEC and CHECK accept whichever role
// the name is registered under.
func resolveRole(command runner.Command, name string) (runner.Role, error) {
	switch command {
	case runner.CommandDiscover, runner.CommandRead:
		source, err := registry.CreateSource(name)
		if err != nil {
			return runner.Role{}, err
		}
		return runner.SourceRole(source), nil
	case runner.CommandWrite:
		destination, err := registry.CreateDestination(name)
		if err != nil {
			return runner.Role{}, err
		}
		return runner.DestinationRole(destination), nil
	default:
		if source, err := registry.CreateSource(name); err == nil {
			return runner.SourceRole(source), nil
		}
		destination, err := registry.CreateDestination(name)
		if err != nil {
			return runner.Role{}, err
		}
		return runner.DestinationRole(destination), nil
	}
}
