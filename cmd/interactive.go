package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/model"
)

// menuOptions mirrors the classic console menu: one entry per target kind,
// a free-form entry and an automation (JSON-only) entry.
var menuOptions = []string{
	"e-mail",
	"pessoa (nome completo)",
	"domínio / site",
	"telefone (BR ou internacional)",
	"documento (CPF / CNPJ)",
	"modo livre (qualquer coisa)",
	"modo automação (JSON-only)",
	"sair",
}

var menuPrompts = map[string]string{
	"e-mail":                         "Digite o e-mail do alvo",
	"pessoa (nome completo)":         "Digite o NOME COMPLETO da pessoa",
	"domínio / site":                 "Digite o domínio ou URL (ex: exemplo.com)",
	"telefone (BR ou internacional)": "Digite o telefone (BR ou internacional)",
	"documento (CPF / CNPJ)":         "Digite o CPF ou CNPJ (com pontos e traços)",
	"modo livre (qualquer coisa)":    "Digite o alvo (qualquer formato)",
	"modo automação (JSON-only)":     "Digite o alvo para modo automação",
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run the menu-driven console",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, registry, err := newInvestigation(cmd.Context())
		if err != nil {
			return err
		}
		if registry != nil {
			defer registry.Close()
		}

		for {
			printBanner()

			choice, err := pterm.DefaultInteractiveSelect.
				WithOptions(menuOptions).
				Show("Selecione uma opção")
			if err != nil {
				return err
			}
			if choice == "sair" {
				pterm.Println("Saindo...")
				return nil
			}

			target, err := pterm.DefaultInteractiveTextInput.Show(menuPrompts[choice])
			if err != nil {
				return err
			}
			if strings.TrimSpace(target) == "" {
				pterm.Warning.Println("Alvo vazio.")
				continue
			}

			// Automation runs silence logs so stdout carries only the JSON;
			// the logger comes back before the next menu iteration.
			automation := choice == "modo automação (JSON-only)"
			prev := zap.L()
			if automation {
				zap.ReplaceGlobals(zap.NewNop())
			}

			result, err := inv.Run(cmd.Context(), target, model.ModeFull)
			if automation {
				zap.ReplaceGlobals(prev)
			}
			if err != nil {
				pterm.Error.Println(err)
				continue
			}

			if automation {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result.Artifact); err != nil {
					return err
				}
				continue
			}
			printDossier(result)
			pterm.Println()
		}
	},
}

func printBanner() {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgMagenta)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("MASHA - Full Spectrum OSINT Agent")
	pterm.Println()
	pterm.Println("Formatos aceitos: e-mail, nome completo, domínio/URL,")
	pterm.Println("telefone, CPF/CNPJ, username.")
	pterm.Println()
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
