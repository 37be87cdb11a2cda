package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/model"
	"github.com/masha-osint/masha/internal/pipeline"
)

var (
	runTarget string
	runMode   string
	runJSON   bool
	runSilent bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Investigate a single target",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runSilent {
			zap.ReplaceGlobals(zap.NewNop())
		}

		inv, registry, err := newInvestigation(cmd.Context())
		if err != nil {
			return err
		}
		if registry != nil {
			defer registry.Close()
		}

		result, err := inv.Run(cmd.Context(), runTarget, model.RunMode(runMode))
		if err != nil {
			return err
		}

		zap.L().Info("investigation complete",
			zap.String("target", result.Artifact.Target.Normalized),
			zap.Int("confidence", result.Artifact.Dossier.ConfidenceScore),
			zap.String("report", result.ReportPath))

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Artifact)
		}
		printDossier(result)
		return nil
	},
}

func printDossier(result *pipeline.Result) {
	d := result.Artifact.Dossier
	fmt.Printf("Target: %s (%s)\n", result.Artifact.Target.Normalized, result.Artifact.Target.Type)
	fmt.Printf("Confidence: %d/100\n\n", d.ConfidenceScore)
	fmt.Println(d.Summary)
	if len(d.KeyFacts) > 0 {
		fmt.Println("\nKey facts:")
		for _, f := range d.KeyFacts {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(d.ExtractedContacts) > 0 {
		fmt.Println("\nContacts:")
		for _, c := range d.ExtractedContacts {
			fmt.Printf("  - %s\n", c)
		}
	}
	if result.ReportPath != "" {
		fmt.Printf("\nFull report: %s\n", result.ReportPath)
	}
}

func init() {
	runCmd.Flags().StringVar(&runTarget, "target", "", "target to investigate (name, email, username, phone, CPF/CNPJ, domain or URL)")
	runCmd.Flags().StringVar(&runMode, "mode", string(model.ModeFull), "investigation mode: full, search or crawl")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full artifact as JSON")
	runCmd.Flags().BoolVar(&runSilent, "silent", false, "suppress logs, only print results")
	_ = runCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(runCmd)
}
