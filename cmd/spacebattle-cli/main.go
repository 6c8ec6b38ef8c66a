// SpaceBattle CLI — управление играми через HTTP API и
// демонстрационные сценарии ядра.
//
// Использование:
//
//	spacebattle [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	game      Управление играми
//	scenario  Сценарии в процессе CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/SpaceBattle/internal/cli"
	"github.com/shaiso/SpaceBattle/internal/config"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var cfg config.CLI
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "spacebattle",
		Short:         "SpaceBattle CLI — game server client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", cfg.APIURL, "API server URL (env SPACEBATTLE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewGameCmd(clientFn, outputFn),
		cli.NewScenarioCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
