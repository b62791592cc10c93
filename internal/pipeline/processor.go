package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/claimform"
	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/coverage"
	"github.com/medclaim-ai/claims-engine/internal/entity"
	"github.com/medclaim-ai/claims-engine/internal/repository"
)

// ClaimOutcome bundles everything the claim stage produced for one session.
type ClaimOutcome struct {
	Record   entity.ClaimFormRecord
	Coverage entity.CoverageResult
	Policy   entity.PolicyFields
	Invoice  entity.InvoiceFields
	Claim    *entity.Claim // nil when persistence is off
}

// Processor coordinates the claim stage: load the session's parsed policy
// and invoice, run the coverage calculation, assemble the claim form, and
// persist the claim.
type Processor struct {
	Logger    *slog.Logger
	Parse     *ParseStage
	DocsRepo  repository.DocumentRepository // optional
	ClaimRepo repository.ClaimRepository    // optional
	Assembler *claimform.Assembler
}

func NewProcessor(
	logger *slog.Logger,
	parse *ParseStage,
	docs repository.DocumentRepository,
	claims repository.ClaimRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Parse:     parse,
		DocsRepo:  docs,
		ClaimRepo: claims,
		Assembler: claimform.NewAssembler(logger),
	}
}

// ProcessSession builds a claim from the session's stored documents.
// Both documents must have been parsed first; a missing one is an error,
// not a silent default.
func (p *Processor) ProcessSession(ctx context.Context, sessionID string, overrides map[string]any, vendor string) (*ClaimOutcome, error) {
	if p.DocsRepo == nil {
		return nil, fmt.Errorf("document repository not configured")
	}
	if sessionID == "" {
		sessionID = common.SessionIDFromContext(ctx)
	}

	policyDoc, err := p.DocsRepo.GetBySessionAndType(ctx, sessionID, string(constants.DocTypePolicy))
	if err != nil {
		p.Logger.Error("processor.load_policy.failed", "session_id", sessionID, "err", err)
		return nil, fmt.Errorf("load policy document: %w", err)
	}
	invoiceDoc, err := p.DocsRepo.GetBySessionAndType(ctx, sessionID, string(constants.DocTypeInvoice))
	if err != nil {
		p.Logger.Error("processor.load_invoice.failed", "session_id", sessionID, "err", err)
		return nil, fmt.Errorf("load invoice document: %w", err)
	}

	policy := entity.PolicyFieldsFromMap(policyDoc.ExtractedData)
	invoice := entity.InvoiceFieldsFromMap(invoiceDoc.ExtractedData)
	return p.process(ctx, sessionID, policy, invoice, overrides, vendor)
}

// ProcessDocuments builds a claim directly from parsed field maps, without
// touching storage. The CLI path uses this.
func (p *Processor) ProcessDocuments(ctx context.Context, sessionID string, policyFields, invoiceFields, overrides map[string]any, vendor string) (*ClaimOutcome, error) {
	policy := entity.PolicyFieldsFromMap(policyFields)
	invoice := entity.InvoiceFieldsFromMap(invoiceFields)
	return p.process(ctx, sessionID, policy, invoice, overrides, vendor)
}

func (p *Processor) process(ctx context.Context, sessionID string, policy entity.PolicyFields, invoice entity.InvoiceFields, overrides map[string]any, vendor string) (*ClaimOutcome, error) {
	result := coverage.Calculate(policy, invoice.TotalAmount)
	p.Logger.Info("processor.coverage.ok",
		"session_id", sessionID,
		"total_cost", result.TotalCost,
		"insurance_covers", result.InsuranceCovers,
		"out_of_pocket", result.OutOfPocket,
	)

	record := p.Assembler.Assemble(policy, invoice, overrides, claimform.Options{
		SessionID: sessionID,
		Vendor:    vendor,
	})

	outcome := &ClaimOutcome{
		Record:   record,
		Coverage: result,
		Policy:   policy,
		Invoice:  invoice,
	}

	if p.ClaimRepo != nil && sessionID != "" {
		claim, err := p.ClaimRepo.Create(ctx, &repository.CreateClaimRequest{
			SessionID:     sessionID,
			ClaimID:       record.ClaimID,
			FormData:      record.Fields,
			MissingFields: record.MissingFields,
			Coverage:      &result,
		})
		if err != nil {
			p.Logger.Error("processor.claim_save.failed", "session_id", sessionID, "err", err)
			return outcome, fmt.Errorf("save claim: %w", err)
		}
		outcome.Claim = claim
	}

	log := p.Logger
	if reqID := common.RequestIDFromContext(ctx); reqID != "" {
		log = log.With("request_id", reqID)
	}
	log.Info("processor.claim.ok",
		"session_id", sessionID,
		"claim_id", record.ClaimID,
		"missing_fields", len(record.MissingFields),
	)
	return outcome, nil
}
