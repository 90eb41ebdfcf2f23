package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lightbox",
	Short: "Download the lightbox image linked from web pages",
	Long: `lightbox resolves page links against HOME_URL, finds the first
<a rel="lightbox"> anchor on each page and saves the linked file into DATA_PATH.

Example usage:
  lightbox fetch pokedex/pikachu pokedex/eevee
  lightbox serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".env", "env file with configuration")
	rootCmd.AddCommand(fetchCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
