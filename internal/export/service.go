package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/internal/entity"
	"github.com/medclaim-ai/claims-engine/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	claimsRepo repository.ClaimRepository
	logger     *slog.Logger
}

func NewService(repo repository.ClaimRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{claimsRepo: repo, logger: logger}
}

// ExportClaimsXLSX returns an XLSX workbook (as bytes) with every claim
// generated for the session, one claim per row.
func (s *Service) ExportClaimsXLSX(ctx context.Context, sessionID string) ([]byte, error) {
	start := time.Now()

	claims, err := s.claimsRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	return s.renderClaims(sessionID, claims, start)
}

// RenderClaimsXLSX builds the same workbook from in-memory claims, for the
// CLI path that runs without a database.
func (s *Service) RenderClaimsXLSX(sessionID string, claims []*entity.Claim) ([]byte, error) {
	return s.renderClaims(sessionID, claims, time.Now())
}

func (s *Service) renderClaims(sessionID string, claims []*entity.Claim, start time.Time) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Claims"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Claim ID",
		"Status",
		"Patient",
		"Hospital",
		"Service Date",
		"Total Amount",
		"Insurance Covers",
		"Out of Pocket",
		"Coverage %",
		"Missing Fields",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range claims {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.ClaimID)
		write(2, c.Status)
		write(3, formValue(c.FormData, constants.FieldPatientName))
		write(4, formValue(c.FormData, constants.FieldHospitalName))
		write(5, formValue(c.FormData, constants.FieldServiceDate))
		if c.Coverage != nil {
			write(6, c.Coverage.TotalCost)
			write(7, c.Coverage.InsuranceCovers)
			write(8, c.Coverage.OutOfPocket)
			write(9, c.Coverage.CoveragePercentage)
		}
		write(10, strings.Join(c.MissingFields, ", "))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 24) // claim id
	_ = f.SetColWidth(sheet, "B", "B", 16) // status
	_ = f.SetColWidth(sheet, "C", "D", 26) // patient, hospital
	_ = f.SetColWidth(sheet, "E", "E", 14) // date
	_ = f.SetColWidth(sheet, "F", "I", 16) // amounts
	_ = f.SetColWidth(sheet, "J", "J", 40) // missing fields

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"session_id", sessionID,
		"rows", len(claims),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formValue(form map[string]any, key string) string {
	if form == nil {
		return ""
	}
	v, ok := form[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
