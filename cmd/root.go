package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "masha",
	Short: "Automated OSINT investigation pipeline",
	Long: `Masha investigates a single target (name, email, username, phone,
document, domain or URL): it classifies the target, plans search queries,
sweeps the web, probes social platforms, crawls selected pages and
synthesizes everything into a JSON dossier.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return config.InitLogger(cfg.Log)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
