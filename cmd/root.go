package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cardscan",
		Short: "Trading card scanner: photograph a card, identify it, translate its rules text",
		Long: `Cardscan identifies trading cards from photos.

It crops and binarizes the card's title and collector bands, recognizes them
with OCR, resolves the card against the public card catalog (exact set and
collector number first, fuzzy name search as fallback), swaps in a localized
printing when one exists, and can machine-translate the rules text on demand.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
