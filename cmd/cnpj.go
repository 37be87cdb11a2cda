package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/store"
)

var cnpjCmd = &cobra.Command{
	Use:   "cnpj",
	Short: "Manage the local CNPJ registry",
}

var cnpjListCmd = &cobra.Command{
	Use:   "list",
	Short: "List company and partner archives available upstream",
	RunE: func(cmd *cobra.Command, args []string) error {
		ing, st, err := openIngestor(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		files, err := ing.ListFiles(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var cnpjFetchCmd = &cobra.Command{
	Use:   "fetch [archive...]",
	Short: "Download registry archives (all when none are named)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ing, st, err := openIngestor(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		names := args
		if len(names) == 0 {
			names, err = ing.ListFiles(cmd.Context())
			if err != nil {
				return err
			}
		}
		for _, name := range names {
			path, err := ing.Download(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("downloaded %s\n", path)
		}
		return nil
	},
}

var cnpjLoadCmd = &cobra.Command{
	Use:   "load <zip>...",
	Short: "Import downloaded archives into the registry",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ing, st, err := openIngestor(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		var companies, partners int64
		for _, zipPath := range args {
			report, err := ing.LoadZip(cmd.Context(), zipPath)
			if err != nil {
				return err
			}
			companies += report.Companies
			partners += report.Partners
			if len(report.Skipped) > 0 {
				zap.L().Warn("skipped members",
					zap.String("zip", zipPath),
					zap.String("members", strings.Join(report.Skipped, ", ")))
			}
		}
		fmt.Printf("loaded %d companies, %d partners\n", companies, partners)
		return nil
	},
}

var cnpjStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registry row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cmd.Context(), cfg.Registry)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		stats, err := st.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("companies: %d\npartners:  %d\n", stats.Companies, stats.Partners)
		return nil
	},
}

func init() {
	cnpjCmd.AddCommand(cnpjListCmd, cnpjFetchCmd, cnpjLoadCmd, cnpjStatusCmd)
	rootCmd.AddCommand(cnpjCmd)
}
