package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var opts pipelineOptions
	var doTranslate bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Identify a card from an image file",
		Args:  cobra.ExactArgs(1),
		Example: `  # Identify a card photo
  cardscan scan card.jpg

  # Identify and show the Portuguese printing, translating the rules text
  cardscan scan card.jpg --lang pt --translate

  # Correct perspective before reading the card bands
  cardscan scan card.jpg --rectify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			imageData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			pipeline, engine, err := buildPipeline(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer engine.Close()

			card, err := pipeline.Scan(cmd.Context(), imageData)
			if err != nil {
				return err
			}

			if doTranslate {
				if err := pipeline.Translate(cmd.Context(), card); err != nil {
					fmt.Fprintf(os.Stderr, "translation failed: %v\n", err)
				}
			}

			fmt.Printf("Name:   %s\n", card.DisplayName())
			if card.LocalizedName != "" && card.LocalizedName != card.CanonicalName {
				fmt.Printf("        (%s)\n", card.CanonicalName)
			}
			typeLine := card.LocalizedTypeLine
			if typeLine == "" {
				typeLine = card.TypeLine
			}
			fmt.Printf("Type:   %s\n", typeLine)
			fmt.Printf("Set:    %s #%s (%s)\n", card.SetCode, card.CollectorNumber, card.Language)
			if text := card.LocalizedRulesText; text != "" {
				fmt.Printf("\n%s\n", text)
			} else if card.RulesText != "" {
				fmt.Printf("\n%s\n", card.RulesText)
			}
			if card.TranslatedText != "" {
				fmt.Printf("\n--- translated ---\n%s\n", card.TranslatedText)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.engine, "engine", "tesseract", "OCR engine (tesseract or gemini)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML pipeline config")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Target language for display and translation")
	cmd.Flags().BoolVar(&opts.rectify, "rectify", false, "Detect the card boundary and correct perspective first")
	cmd.Flags().BoolVar(&doTranslate, "translate", false, "Translate the rules text after identification")

	return cmd
}
