package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medclaim-ai/claims-engine/constants"
	processor "github.com/medclaim-ai/claims-engine/internal/pipeline"
)

var (
	flagDocType string
	flagFile    string
	flagJSON    string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract canonical fields from one document",
	Long: "Reads a policy or invoice as raw text (--file) or a structured JSON payload " +
		"(--json) and prints the flat canonical field map.",
	RunE: runParse,
}

func init() {
	f := parseCmd.Flags()
	f.StringVar(&flagDocType, "type", "", "Document type: policy or invoice (required)")
	f.StringVar(&flagFile, "file", "", "Path to a raw text document")
	f.StringVar(&flagJSON, "json", "", "Path to a structured JSON payload")
	_ = parseCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	docType, err := constants.ParseDocumentType(flagDocType)
	if err != nil {
		return err
	}
	if (flagFile == "") == (flagJSON == "") {
		return fmt.Errorf("exactly one of --file or --json is required")
	}

	ctx, cancel := commandContext()
	defer cancel()

	stage, _, cleanup, err := buildStage(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var res *processor.ParseResult
	if flagFile != "" {
		raw, err := os.ReadFile(flagFile)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		res, err = stage.FromText(ctx, flagSession, docType, string(raw), filepath.Base(flagFile))
		if err != nil {
			return err
		}
	} else {
		raw, err := os.ReadFile(flagJSON)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		res, err = stage.FromStructured(ctx, flagSession, docType, payload)
		if err != nil {
			return err
		}
	}

	return printJSON(map[string]any{
		"fields":       res.Fields,
		"needs_review": res.NeedsReview,
		"source":       res.Source,
	})
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
