package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/entity"
)

// ExtractJobRepository records the lifecycle of extraction runs. One job row
// per parse attempt; the document row keeps only the latest fields, the job
// rows keep the history.
type ExtractJobRepository interface {
	Start(ctx context.Context, documentID uuid.UUID, sessionID string, status constants.JobStatus) (*entity.ExtractJob, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID, source string, needsReview bool, extracted map[string]any) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	ListBySession(ctx context.Context, sessionID string) ([]*entity.ExtractJob, error)
}

type extractJobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewExtractJobRepository(pool *pgxpool.Pool, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{pool: pool, log: log}
}

func (r *extractJobRepo) Start(ctx context.Context, documentID uuid.UUID, sessionID string, status constants.JobStatus) (*entity.ExtractJob, error) {
	v := common.NewValidator().
		Field("session_id", sessionID, common.Required, common.MaxLength(128))
	if v.HasErrors() {
		return nil, common.NewAppError("EXTRACT_JOB_INVALID", v.ErrorMessage(), common.ErrValidation)
	}
	if documentID == uuid.Nil {
		return nil, common.NewAppError("EXTRACT_JOB_INVALID", "document_id is required", common.ErrValidation)
	}

	job := &entity.ExtractJob{
		DocumentID: documentID,
		SessionID:  sessionID,
		Status:     string(status),
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO extract_job (document_id, session_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, started_at`,
		documentID, sessionID, string(status),
	).Scan(&job.ID, &job.StartedAt)
	if err != nil {
		r.log.Error("extract job start failed", "session_id", sessionID, "document_id", documentID, "err", err)
		return nil, err
	}
	r.log.Info("extract job started",
		"job_id", job.ID, "session_id", sessionID,
		"document_id", documentID, "status", string(status),
	)
	return job, nil
}

func (r *extractJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID, source string, needsReview bool, extracted map[string]any) error {
	payload, err := json.Marshal(extracted)
	if err != nil {
		return fmt.Errorf("encode extracted_json: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE extract_job
		SET status = $2, source = $3, needs_review = $4, extracted_json = $5, finished_at = now()
		WHERE id = $1`,
		jobID, string(constants.JobStatusExtracted), source, needsReview, payload,
	)
	if err != nil {
		r.log.Error("extract job finish failed", "job_id", jobID, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("extract job %s not found", jobID)
	}
	r.log.Info("extract job finished",
		"job_id", jobID, "status", string(constants.JobStatusExtracted),
		"source", source, "needs_review", needsReview,
	)
	return nil
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE extract_job
		SET status = $2, error_message = $3, finished_at = now()
		WHERE id = $1`,
		jobID, string(constants.JobStatusFailed), message,
	)
	if err != nil {
		r.log.Error("extract job failure update failed", "job_id", jobID, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("extract job %s not found", jobID)
	}
	r.log.Warn("extract job failed", "job_id", jobID, "error_message", message)
	return nil
}

func (r *extractJobRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.ExtractJob, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, session_id, status, source, needs_review, error_message, started_at, finished_at
		FROM extract_job
		WHERE session_id = $1
		ORDER BY started_at`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*entity.ExtractJob
	for rows.Next() {
		job := &entity.ExtractJob{}
		if err := rows.Scan(&job.ID, &job.DocumentID, &job.SessionID, &job.Status,
			&job.Source, &job.NeedsReview, &job.ErrorMessage, &job.StartedAt, &job.FinishedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
