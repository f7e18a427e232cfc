package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kalambet/culturelens/internal/report"
)

var version = "dev"

var (
	noColor  bool
	markdown bool
)

var rootCmd = &cobra.Command{
	Use:   "culturelens",
	Short: "Compare national cultures and get bilateral business advice",
	Long: `culturelens compares Hofstede cultural dimension scores for up to three
countries and gives rule-based advice for two-country business situations.

Start the local service with "culturelens serve", then:
  culturelens compare US KR JP
  culturelens advice US KR --context negotiation`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&markdown, "markdown", false, "render tables and advice as Markdown")

	rootCmd.AddCommand(serveCmd, stopCmd, statusCmd, mcpCmd)
	rootCmd.AddCommand(countriesCmd, contextsCmd, compareCmd, adviceCmd)
	rootCmd.AddCommand(historyCmd, prefsCmd, importCmd, configCmd)
}

func outputMode() report.Mode {
	if markdown {
		return report.Markdown
	}
	return report.ASCII
}

func main() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		noColor = true
	}
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

