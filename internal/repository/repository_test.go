package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/common"
)

// Input validation runs before the pool is touched, so these exercise the
// rejection paths without a database.

func TestDocumentSaveRejectsBadInput(t *testing.T) {
	repo := NewDocumentRepository(nil, nil)

	tests := []struct {
		name string
		req  SaveDocumentRequest
	}{
		{"empty session", SaveDocumentRequest{SessionID: "", DocumentType: string(constants.DocTypePolicy)}},
		{"blank session", SaveDocumentRequest{SessionID: "   ", DocumentType: string(constants.DocTypeInvoice)}},
		{"unknown document type", SaveDocumentRequest{SessionID: "sess-1", DocumentType: "receipt"}},
		{"empty document type", SaveDocumentRequest{SessionID: "sess-1", DocumentType: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := repo.Save(context.Background(), &req)
			if err == nil {
				t.Fatal("Save() expected error, got nil")
			}
			if !errors.Is(err, common.ErrValidation) {
				t.Errorf("Save() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestClaimCreateRejectsBadInput(t *testing.T) {
	repo := NewClaimRepository(nil, nil)

	tests := []struct {
		name string
		req  CreateClaimRequest
	}{
		{"empty session", CreateClaimRequest{SessionID: "", ClaimID: "SYN_AB12CD34"}},
		{"empty claim id", CreateClaimRequest{SessionID: "sess-1", ClaimID: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := repo.Create(context.Background(), &req)
			if err == nil {
				t.Fatal("Create() expected error, got nil")
			}
			if !errors.Is(err, common.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestExtractJobStartRejectsBadInput(t *testing.T) {
	repo := NewExtractJobRepository(nil, nil)

	if _, err := repo.Start(context.Background(), uuid.New(), "", constants.JobStatusRunning); !errors.Is(err, common.ErrValidation) {
		t.Errorf("Start() with empty session: error = %v, want ErrValidation", err)
	}
	if _, err := repo.Start(context.Background(), uuid.Nil, "sess-1", constants.JobStatusRunning); !errors.Is(err, common.ErrValidation) {
		t.Errorf("Start() with nil document id: error = %v, want ErrValidation", err)
	}
}
