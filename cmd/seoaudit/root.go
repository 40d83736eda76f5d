// Package main provides the entry point for the seoaudit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seoaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoaudit",
		Short: "Technical SEO auditing tool for websites",
		Long: `seoaudit crawls a website and analyzes it for technical SEO issues.

It fetches robots.txt and sitemaps, crawls the site with a bounded page
budget, and reports findings such as broken pages, indexability problems,
missing or weak titles and meta descriptions, thin content, and orphan
pages, aggregated into a site health score.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
