// Package cmd implements the minimod demo harness: a thin Cobra CLI that
// drives the library's asynchronous callback API and renders results with
// pterm, mirroring the reference CLI's command tree and TTY-detection
// convention.
package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"minimod"
)

// CLIConfig holds the process-lifetime settings shared by every subcommand.
type CLIConfig struct {
	APIKey      string
	RootPath    string
	Environment string
}

var cfg CLIConfig

var rootCmd = &cobra.Command{
	Use:   "minimod",
	Short: "Demo harness for the minimod client library",
	Long:  `A small CLI tool exercising the minimod library's game/mod browsing, authentication, and installation surface.`,
}

// Execute initializes the root command tree and delegates to Cobra for
// argument parsing and subcommand dispatch.
func Execute() {
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
		pterm.DisableStyling()
		pterm.RawOutput = true
	}
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.APIKey, "api-key", os.Getenv("MINIMOD_API_KEY"), "32-character mod.io API key")
	rootCmd.PersistentFlags().StringVar(&cfg.RootPath, "root-path", defaultRootPath(), "directory for token and install state")
	rootCmd.PersistentFlags().StringVar(&cfg.Environment, "environment", "test", "api environment: live or test")
}

func defaultRootPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minimod"
	}
	return home + "/.minimod"
}

// newClient constructs a minimod.Client from the persistent flags, shared
// by every subcommand's RunE.
func newClient() (*minimod.Client, error) {
	return newClientWithUnzip(false)
}

// newClientWithUnzip is newClient with archive extraction enabled, used by
// the install command.
func newClientWithUnzip(unzip bool) (*minimod.Client, error) {
	env := minimod.Test
	if cfg.Environment == "live" {
		env = minimod.Live
	}

	c, err := minimod.New(minimod.Options{
		Environment: env,
		APIKey:      cfg.APIKey,
		RootPath:    cfg.RootPath,
		Unzip:       unzip,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing client: %w", err)
	}
	return c, nil
}
