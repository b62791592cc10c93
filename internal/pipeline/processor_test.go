package processor

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/entity"
	"github.com/medclaim-ai/claims-engine/internal/repository"
)

type fakeDocumentRepo struct {
	saves []repository.SaveDocumentRequest
	docs  map[string]*entity.Document
}

func (f *fakeDocumentRepo) Save(_ context.Context, req *repository.SaveDocumentRequest) (*entity.Document, error) {
	f.saves = append(f.saves, *req)
	doc := &entity.Document{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(req.SessionID+req.DocumentType)),
		SessionID:     req.SessionID,
		DocumentType:  req.DocumentType,
		RawText:       req.RawText,
		ExtractedData: req.ExtractedData,
		NeedsReview:   req.NeedsReview,
	}
	if f.docs == nil {
		f.docs = map[string]*entity.Document{}
	}
	f.docs[req.DocumentType] = doc
	return doc, nil
}

func (f *fakeDocumentRepo) GetBySessionAndType(_ context.Context, _, documentType string) (*entity.Document, error) {
	doc, ok := f.docs[documentType]
	if !ok {
		return nil, common.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocumentRepo) ListBySession(_ context.Context, _ string) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	return out, nil
}

type finishedJob struct {
	source      string
	needsReview bool
}

type fakeJobRepo struct {
	startedStatus constants.JobStatus
	startedDoc    uuid.UUID
	finished      *finishedJob
	failedMessage string
}

func (f *fakeJobRepo) Start(_ context.Context, documentID uuid.UUID, sessionID string, status constants.JobStatus) (*entity.ExtractJob, error) {
	f.startedStatus = status
	f.startedDoc = documentID
	return &entity.ExtractJob{ID: uuid.New(), DocumentID: documentID, SessionID: sessionID, Status: string(status)}, nil
}

func (f *fakeJobRepo) FinishSuccess(_ context.Context, _ uuid.UUID, source string, needsReview bool, _ map[string]any) error {
	f.finished = &finishedJob{source: source, needsReview: needsReview}
	return nil
}

func (f *fakeJobRepo) FinishFailure(_ context.Context, _ uuid.UUID, message string) error {
	f.failedMessage = message
	return nil
}

func (f *fakeJobRepo) ListBySession(_ context.Context, _ string) ([]*entity.ExtractJob, error) {
	return nil, nil
}

const policyText = `Policy Number: POL-AB-123456
Insurer: Star Health Insurance Ltd
Sum Insured: Rs. 5,00,000
Deductible: 5,000
Copay: 20%`

const invoiceText = `City Care Hospital, Mumbai
Patient Name: Asha Rao (DOB: 01-02-1990)
Date of Service: 2024-01-15
Grand Total: Rs. 50,000
Procedure: Knee Replacement Surgery`

func TestFromTextPatternsPath(t *testing.T) {
	stage := NewParseStage(nil, Config{}, nil, nil, nil)

	res, err := stage.FromText(context.Background(), "sess-1", constants.DocTypeInvoice, invoiceText, "invoice.txt")
	if err != nil {
		t.Fatalf("FromText() error = %v", err)
	}
	if res.Source != "patterns" {
		t.Errorf("Source = %q, want patterns", res.Source)
	}
	if res.Fields[constants.FieldPatientName] != "Asha Rao" {
		t.Errorf("patient_name = %v, want Asha Rao", res.Fields[constants.FieldPatientName])
	}
	if res.Fields[constants.FieldTotalAmount] != 50000.0 {
		t.Errorf("total_amount = %v, want 50000", res.Fields[constants.FieldTotalAmount])
	}
	if res.NeedsReview {
		t.Error("complete invoice should not need review")
	}
}

func TestFromTextFlagsEmptyDocumentForReview(t *testing.T) {
	stage := NewParseStage(nil, Config{}, nil, nil, nil)

	res, err := stage.FromText(context.Background(), "sess-1", constants.DocTypePolicy, "nothing useful here", "")
	if err != nil {
		t.Fatalf("FromText() error = %v", err)
	}
	if !res.NeedsReview {
		t.Error("document with no anchor fields should need review")
	}
}

func TestFromTextRejectsUnknownType(t *testing.T) {
	stage := NewParseStage(nil, Config{}, nil, nil, nil)

	if _, err := stage.FromText(context.Background(), "sess-1", constants.DocumentType("receipt"), "text", ""); err == nil {
		t.Error("expected error for unknown document type")
	}
}

func TestFromTextRecordsDocumentAndJob(t *testing.T) {
	docs := &fakeDocumentRepo{}
	jobs := &fakeJobRepo{}
	stage := NewParseStage(nil, Config{}, docs, jobs, nil)

	res, err := stage.FromText(context.Background(), "sess-1", constants.DocTypeInvoice, invoiceText, "")
	if err != nil {
		t.Fatalf("FromText() error = %v", err)
	}

	// one save for the raw document, one upsert with the extracted fields
	if len(docs.saves) != 2 {
		t.Fatalf("saves = %d, want 2", len(docs.saves))
	}
	if docs.saves[0].ExtractedData != nil {
		t.Error("first save should carry raw text only")
	}
	if docs.saves[1].ExtractedData[constants.FieldPatientName] != "Asha Rao" {
		t.Errorf("second save patient_name = %v", docs.saves[1].ExtractedData[constants.FieldPatientName])
	}

	if jobs.startedStatus != constants.JobStatusRunning {
		t.Errorf("job started as %q, want RUNNING", jobs.startedStatus)
	}
	if res.Document == nil || jobs.startedDoc != res.Document.ID {
		t.Error("job should reference the saved document")
	}
	if jobs.finished == nil {
		t.Fatal("job never finished")
	}
	if jobs.finished.source != "patterns" {
		t.Errorf("finished source = %q, want patterns", jobs.finished.source)
	}
	if jobs.finished.needsReview {
		t.Error("complete invoice should finish without review flag")
	}
	if res.Job == nil || res.Job.Status != string(constants.JobStatusExtracted) {
		t.Errorf("result job = %+v, want EXTRACTED", res.Job)
	}
}

func TestFromTextTakesSessionFromContext(t *testing.T) {
	docs := &fakeDocumentRepo{}
	stage := NewParseStage(nil, Config{}, docs, nil, nil)

	ctx := common.WithSessionID(context.Background(), "ctx-sess")
	if _, err := stage.FromText(ctx, "", constants.DocTypeInvoice, invoiceText, ""); err != nil {
		t.Fatalf("FromText() error = %v", err)
	}
	if len(docs.saves) == 0 {
		t.Fatal("expected persistence with the context session")
	}
	if docs.saves[0].SessionID != "ctx-sess" {
		t.Errorf("SessionID = %q, want ctx-sess", docs.saves[0].SessionID)
	}
}

func TestProcessDocumentsEndToEnd(t *testing.T) {
	stage := NewParseStage(nil, Config{}, nil, nil, nil)
	proc := NewProcessor(nil, stage, nil, nil)

	policyRes, err := stage.FromText(context.Background(), "", constants.DocTypePolicy, policyText, "")
	if err != nil {
		t.Fatalf("parse policy: %v", err)
	}
	invoiceRes, err := stage.FromText(context.Background(), "", constants.DocTypeInvoice, invoiceText, "")
	if err != nil {
		t.Fatalf("parse invoice: %v", err)
	}

	out, err := proc.ProcessDocuments(context.Background(), "9f8a7b6c-0000-0000-0000-000000000000",
		policyRes.Fields, invoiceRes.Fields, nil, "")
	if err != nil {
		t.Fatalf("ProcessDocuments() error = %v", err)
	}

	// (50000 - 5000) * 0.8 = 36000 covered, capped at 500000
	if out.Coverage.InsuranceCovers != 36000 {
		t.Errorf("InsuranceCovers = %v, want 36000", out.Coverage.InsuranceCovers)
	}
	if out.Coverage.OutOfPocket != 14000 {
		t.Errorf("OutOfPocket = %v, want 14000", out.Coverage.OutOfPocket)
	}
	if !strings.HasPrefix(out.Record.ClaimID, "SYN_9F8A7B6C") {
		t.Errorf("ClaimID = %q, want SYN_9F8A7B6C prefix", out.Record.ClaimID)
	}
	if len(out.Record.MissingFields) != 0 {
		t.Errorf("MissingFields = %v, want none", out.Record.MissingFields)
	}
	if out.Claim != nil {
		t.Error("Claim should be nil without a repository")
	}
}
