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

type CreateClaimRequest struct {
	SessionID     string
	ClaimID       string
	FormData      map[string]any
	MissingFields []string
	Coverage      *entity.CoverageResult
}

type ClaimRepository interface {
	Create(ctx context.Context, req *CreateClaimRequest) (*entity.Claim, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Claim, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Claim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ClaimStatus) error
}

type claimRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewClaimRepository(pool *pgxpool.Pool, log *slog.Logger) ClaimRepository {
	if log == nil {
		log = slog.Default()
	}
	return &claimRepo{pool: pool, log: log}
}

func (r *claimRepo) Create(ctx context.Context, req *CreateClaimRequest) (*entity.Claim, error) {
	v := common.NewValidator().
		Field("session_id", req.SessionID, common.Required, common.MaxLength(128)).
		Field("claim_id", req.ClaimID, common.Required, common.MaxLength(64))
	if v.HasErrors() {
		return nil, common.NewAppError("CLAIM_INVALID", v.ErrorMessage(), common.ErrValidation)
	}

	formData, err := json.Marshal(req.FormData)
	if err != nil {
		return nil, fmt.Errorf("encode form_data: %w", err)
	}
	missing, err := json.Marshal(req.MissingFields)
	if err != nil {
		return nil, fmt.Errorf("encode missing_fields: %w", err)
	}
	var coverage []byte
	if req.Coverage != nil {
		if coverage, err = json.Marshal(req.Coverage); err != nil {
			return nil, fmt.Errorf("encode coverage: %w", err)
		}
	}

	claim := &entity.Claim{
		SessionID:     req.SessionID,
		ClaimID:       req.ClaimID,
		Status:        string(constants.ClaimStatusFormGenerated),
		FormData:      req.FormData,
		MissingFields: req.MissingFields,
		Coverage:      req.Coverage,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO claims (session_id, claim_id, status, form_data, missing_fields, coverage)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		req.SessionID, req.ClaimID, claim.Status, formData, missing, coverage,
	).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt)
	if err != nil {
		r.log.Error("claim create failed", "session_id", req.SessionID, "claim_id", req.ClaimID, "err", err)
		return nil, err
	}
	r.log.Info("claim created",
		"id", claim.ID, "claim_id", claim.ClaimID,
		"session_id", claim.SessionID, "missing", len(claim.MissingFields),
	)
	return claim, nil
}

func (r *claimRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Claim, error) {
	claim := &entity.Claim{}
	var formData, missing, coverage []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, session_id, claim_id, status, form_data, missing_fields, coverage, created_at, updated_at
		FROM claims
		WHERE id = $1`,
		id,
	).Scan(&claim.ID, &claim.SessionID, &claim.ClaimID, &claim.Status,
		&formData, &missing, &coverage, &claim.CreatedAt, &claim.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeClaimJSON(claim, formData, missing, coverage); err != nil {
		return nil, err
	}
	return claim, nil
}

func (r *claimRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Claim, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, claim_id, status, form_data, missing_fields, coverage, created_at, updated_at
		FROM claims
		WHERE session_id = $1
		ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*entity.Claim
	for rows.Next() {
		claim := &entity.Claim{}
		var formData, missing, coverage []byte
		if err := rows.Scan(&claim.ID, &claim.SessionID, &claim.ClaimID, &claim.Status,
			&formData, &missing, &coverage, &claim.CreatedAt, &claim.UpdatedAt); err != nil {
			return nil, err
		}
		if err := decodeClaimJSON(claim, formData, missing, coverage); err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

func (r *claimRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ClaimStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE claims SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		r.log.Error("claim status update failed", "id", id, "status", string(status), "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("claim %s not found", id)
	}
	r.log.Info("claim status updated", "id", id, "status", string(status))
	return nil
}

func decodeClaimJSON(claim *entity.Claim, formData, missing, coverage []byte) error {
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &claim.FormData); err != nil {
			return fmt.Errorf("decode form_data: %w", err)
		}
	}
	if len(missing) > 0 {
		if err := json.Unmarshal(missing, &claim.MissingFields); err != nil {
			return fmt.Errorf("decode missing_fields: %w", err)
		}
	}
	if len(coverage) > 0 {
		claim.Coverage = &entity.CoverageResult{}
		if err := json.Unmarshal(coverage, claim.Coverage); err != nil {
			return fmt.Errorf("decode coverage: %w", err)
		}
	}
	return nil
}
