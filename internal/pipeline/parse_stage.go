package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/entity"
	"github.com/medclaim-ai/claims-engine/internal/extract"
	"github.com/medclaim-ai/claims-engine/internal/llm"
	"github.com/medclaim-ai/claims-engine/internal/mapper"
	"github.com/medclaim-ai/claims-engine/internal/numeric"
	"github.com/medclaim-ai/claims-engine/internal/repository"
)

// Config holds thresholds and behavior flags for the parse stage.
type Config struct {
	MinConfidence float32 // default 0.60
}

// ParseResult is the outcome of parsing one document.
type ParseResult struct {
	Fields      map[string]any
	NeedsReview bool
	Source      string // "llm", "patterns", or "structured"
	Document    *entity.Document
	Job         *entity.ExtractJob // nil when job tracking is off
}

// ParseStage turns one raw document (free text or structured payload) into
// a flat canonical field map. The LLM extractor is optional; when it is
// absent or fails, the deterministic pattern extractor takes over, so the
// stage always yields a complete field map.
type ParseStage struct {
	Logger    *slog.Logger
	Cfg       Config
	DocsRepo  repository.DocumentRepository   // optional; nil skips persistence
	JobsRepo  repository.ExtractJobRepository // optional; nil skips job tracking
	Extractor *extract.Extractor
	Mapper    *mapper.Mapper
	LLM       llm.DocumentExtractor // optional
}

func NewParseStage(
	logger *slog.Logger,
	cfg Config,
	docs repository.DocumentRepository,
	jobs repository.ExtractJobRepository,
	llmClient llm.DocumentExtractor,
) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.60
	}
	return &ParseStage{
		Logger:    logger,
		Cfg:       cfg,
		DocsRepo:  docs,
		JobsRepo:  jobs,
		Extractor: extract.NewExtractor(logger),
		Mapper:    mapper.NewMapper(logger),
		LLM:       llmClient,
	}
}

// FromText parses raw document text. The LLM path runs first when
// configured; its loosely structured output goes through the key-path
// mapper so nesting does not matter. Any failure falls back to pattern
// extraction, which is total.
func (p *ParseStage) FromText(ctx context.Context, sessionID string, docType constants.DocumentType, rawText, filenameHint string) (*ParseResult, error) {
	if _, err := constants.ParseDocumentType(string(docType)); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = common.SessionIDFromContext(ctx)
	}

	p.Logger.Info("parse.text.start",
		"session_id", sessionID, "doc_type", string(docType), "text_len", len(rawText),
	)

	res := &ParseResult{}
	if err := p.begin(ctx, sessionID, docType, &rawText, res); err != nil {
		return nil, err
	}

	fields, source := p.extractText(ctx, sessionID, docType, rawText, filenameHint)
	res.Fields = numeric.NormalizeAmountFields(fields, p.Logger)
	res.NeedsReview = p.needsReview(res.Fields, docType)
	res.Source = source

	if err := p.finish(ctx, sessionID, docType, &rawText, res); err != nil {
		return res, err
	}

	p.Logger.Info("parse.text.ok",
		"session_id", sessionID, "doc_type", string(docType),
		"source", source, "needs_review", res.NeedsReview,
	)
	return res, nil
}

// FromStructured parses a pre-structured payload (JSON upload, upstream
// extraction output) through the key-path mapper.
func (p *ParseStage) FromStructured(ctx context.Context, sessionID string, docType constants.DocumentType, raw map[string]any) (*ParseResult, error) {
	if _, err := constants.ParseDocumentType(string(docType)); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = common.SessionIDFromContext(ctx)
	}

	res := &ParseResult{}
	if err := p.begin(ctx, sessionID, docType, nil, res); err != nil {
		return nil, err
	}

	fields, err := p.Mapper.Structured(raw, docType)
	if err != nil {
		p.failJob(ctx, res, err)
		return nil, err
	}
	res.Fields = numeric.NormalizeAmountFields(fields, p.Logger)
	res.NeedsReview = p.needsReview(res.Fields, docType)
	res.Source = "structured"

	if err := p.finish(ctx, sessionID, docType, nil, res); err != nil {
		return res, err
	}

	p.Logger.Info("parse.structured.ok",
		"session_id", sessionID, "doc_type", string(docType), "needs_review", res.NeedsReview,
	)
	return res, nil
}

func (p *ParseStage) extractText(ctx context.Context, sessionID string, docType constants.DocumentType, rawText, filenameHint string) (map[string]any, string) {
	if p.LLM != nil {
		obj, _, err := p.LLM.ExtractStructured(ctx, llm.ExtractRequest{
			RawText:      rawText,
			DocumentType: docType,
			SessionID:    sessionID,
			FilenameHint: filenameHint,
		})
		if err == nil {
			if fields, mErr := p.Mapper.Structured(obj, docType); mErr == nil {
				return fields, "llm"
			}
		} else {
			p.Logger.Warn("parse.llm.fallback",
				"session_id", sessionID, "doc_type", string(docType), "err", err,
			)
		}
	}

	// pattern extraction never fails for a known document type
	fields, err := p.Extractor.Fields(rawText, docType)
	if err != nil {
		// unreachable after the ParseDocumentType guard, but keep the
		// defaults path total
		p.Logger.Error("parse.patterns.error", "doc_type", string(docType), "err", err)
		fields = map[string]any{}
	}
	return fields, "patterns"
}

// needsReview flags documents whose anchor fields came back empty. An
// operator looks at these before a claim form built on them goes out.
func (p *ParseStage) needsReview(fields map[string]any, docType constants.DocumentType) bool {
	if docType == constants.DocTypePolicy {
		return fields[constants.FieldPolicyNumber] == constants.StringSentinel ||
			numeric.Normalize(fields[constants.FieldCoverageAmount]) == 0
	}
	return fields[constants.FieldPatientName] == constants.StringSentinel ||
		numeric.Normalize(fields[constants.FieldTotalAmount]) == 0
}

// begin records the incoming document and opens an extract job before any
// extraction runs, so a crash mid-parse still leaves a RUNNING job row to
// find.
func (p *ParseStage) begin(ctx context.Context, sessionID string, docType constants.DocumentType, rawText *string, res *ParseResult) error {
	if p.DocsRepo == nil || sessionID == "" {
		return nil
	}
	doc, err := p.DocsRepo.Save(ctx, &repository.SaveDocumentRequest{
		SessionID:    sessionID,
		DocumentType: string(docType),
		RawText:      rawText,
	})
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	res.Document = doc

	if p.JobsRepo == nil {
		return nil
	}
	job, err := p.JobsRepo.Start(ctx, doc.ID, sessionID, constants.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("start extract job: %w", err)
	}
	res.Job = job
	return nil
}

// finish upserts the extracted fields over the document row and closes the
// job as EXTRACTED. A persistence failure closes the job as FAILED instead.
func (p *ParseStage) finish(ctx context.Context, sessionID string, docType constants.DocumentType, rawText *string, res *ParseResult) error {
	if p.DocsRepo == nil || sessionID == "" {
		return nil
	}
	doc, err := p.DocsRepo.Save(ctx, &repository.SaveDocumentRequest{
		SessionID:     sessionID,
		DocumentType:  string(docType),
		RawText:       rawText,
		ExtractedData: res.Fields,
		NeedsReview:   res.NeedsReview,
	})
	if err != nil {
		p.failJob(ctx, res, err)
		return fmt.Errorf("save document: %w", err)
	}
	res.Document = doc

	if res.Job != nil {
		if err := p.JobsRepo.FinishSuccess(ctx, res.Job.ID, res.Source, res.NeedsReview, res.Fields); err != nil {
			return fmt.Errorf("finish extract job: %w", err)
		}
		res.Job.Status = string(constants.JobStatusExtracted)
	}
	return nil
}

func (p *ParseStage) failJob(ctx context.Context, res *ParseResult, cause error) {
	if res.Job == nil {
		return
	}
	if err := p.JobsRepo.FinishFailure(ctx, res.Job.ID, cause.Error()); err != nil {
		p.Logger.Error("parse.job_fail.error", "job_id", res.Job.ID, "err", err)
		return
	}
	res.Job.Status = string(constants.JobStatusFailed)
}
