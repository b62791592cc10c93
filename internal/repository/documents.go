package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/entity"
)

type SaveDocumentRequest struct {
	SessionID     string
	DocumentType  string
	RawText       *string
	ExtractedData map[string]any
	NeedsReview   bool
}

type DocumentRepository interface {
	Save(ctx context.Context, req *SaveDocumentRequest) (*entity.Document, error)
	GetBySessionAndType(ctx context.Context, sessionID, documentType string) (*entity.Document, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Document, error)
}

type documentRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{pool: pool, log: log}
}

// Save upserts the session's document of the given type. A re-uploaded
// policy or invoice replaces the previous extraction for that session.
func (r *documentRepo) Save(ctx context.Context, req *SaveDocumentRequest) (*entity.Document, error) {
	v := common.NewValidator().
		Field("session_id", req.SessionID, common.Required, common.MaxLength(128)).
		Field("document_type", req.DocumentType, common.Required, common.DocumentTypeRule)
	if v.HasErrors() {
		return nil, common.NewAppError("DOCUMENT_INVALID", v.ErrorMessage(), common.ErrValidation)
	}

	extracted, err := json.Marshal(req.ExtractedData)
	if err != nil {
		return nil, fmt.Errorf("encode extracted_data: %w", err)
	}

	doc := &entity.Document{
		SessionID:     req.SessionID,
		DocumentType:  req.DocumentType,
		RawText:       req.RawText,
		ExtractedData: req.ExtractedData,
		NeedsReview:   req.NeedsReview,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO documents (session_id, document_type, raw_text, extracted_data, needs_review)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, document_type) DO UPDATE SET
			raw_text = EXCLUDED.raw_text,
			extracted_data = EXCLUDED.extracted_data,
			needs_review = EXCLUDED.needs_review
		RETURNING id, created_at`,
		req.SessionID, req.DocumentType, req.RawText, extracted, req.NeedsReview,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		r.log.Error("document save failed", "session_id", req.SessionID, "doc_type", req.DocumentType, "err", err)
		return nil, err
	}
	r.log.Info("document saved",
		"document_id", doc.ID, "session_id", req.SessionID,
		"doc_type", req.DocumentType, "needs_review", req.NeedsReview,
	)
	return doc, nil
}

func (r *documentRepo) GetBySessionAndType(ctx context.Context, sessionID, documentType string) (*entity.Document, error) {
	doc := &entity.Document{}
	var extracted []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, session_id, document_type, raw_text, extracted_data, needs_review, created_at
		FROM documents
		WHERE session_id = $1 AND document_type = $2`,
		sessionID, documentType,
	).Scan(&doc.ID, &doc.SessionID, &doc.DocumentType, &doc.RawText, &extracted, &doc.NeedsReview, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &doc.ExtractedData); err != nil {
			return nil, fmt.Errorf("decode extracted_data: %w", err)
		}
	}
	return doc, nil
}

func (r *documentRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, document_type, raw_text, extracted_data, needs_review, created_at
		FROM documents
		WHERE session_id = $1
		ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc := &entity.Document{}
		var extracted []byte
		if err := rows.Scan(&doc.ID, &doc.SessionID, &doc.DocumentType, &doc.RawText, &extracted, &doc.NeedsReview, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if len(extracted) > 0 {
			if err := json.Unmarshal(extracted, &doc.ExtractedData); err != nil {
				return nil, fmt.Errorf("decode extracted_data: %w", err)
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
