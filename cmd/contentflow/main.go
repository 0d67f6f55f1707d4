// @title ContentFlow API
// @version 1.0
// @description Research-driven article generation with polled progress.
// @BasePath /api
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "contentflow",
	Short: "Research-driven article generation",
	Long: `ContentFlow researches a keyword, topic or URL, writes a long-form article and scores it
for SEO. Run "serve" for the HTTP API or "generate" for a single article from the shell.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config (default $CONTENTFLOW_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
