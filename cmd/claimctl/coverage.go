package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/coverage"
	"github.com/medclaim-ai/claims-engine/internal/entity"
	processor "github.com/medclaim-ai/claims-engine/internal/pipeline"
)

var (
	flagPolicyFile  string
	flagInvoiceFile string
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Calculate coverage from a policy and an invoice",
	Long: "Parses both documents, runs the deductible/copay/cap calculation, and prints " +
		"the breakdown.",
	RunE: runCoverage,
}

func init() {
	f := coverageCmd.Flags()
	f.StringVar(&flagPolicyFile, "policy", "", "Path to the policy document text (required)")
	f.StringVar(&flagInvoiceFile, "invoice", "", "Path to the invoice document text (required)")
	_ = coverageCmd.MarkFlagRequired("policy")
	_ = coverageCmd.MarkFlagRequired("invoice")
	rootCmd.AddCommand(coverageCmd)
}

func runCoverage(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := commandContext()
	defer cancel()

	stage, _, cleanup, err := buildStage(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	policyFields, err := parseDocFile(ctx, stage, flagPolicyFile, constants.DocTypePolicy)
	if err != nil {
		return err
	}
	invoiceFields, err := parseDocFile(ctx, stage, flagInvoiceFile, constants.DocTypeInvoice)
	if err != nil {
		return err
	}

	policy := entity.PolicyFieldsFromMap(policyFields)
	invoice := entity.InvoiceFieldsFromMap(invoiceFields)
	result := coverage.Calculate(policy, invoice.TotalAmount)

	fmt.Println(coverage.Summary(policy, result))
	return printJSON(result)
}

func parseDocFile(ctx context.Context, stage *processor.ParseStage, path string, docType constants.DocumentType) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s document: %w", string(docType), err)
	}
	res, err := stage.FromText(ctx, flagSession, docType, string(raw), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return res.Fields, nil
}
