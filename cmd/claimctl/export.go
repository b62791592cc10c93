package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medclaim-ai/claims-engine/internal/common"
	"github.com/medclaim-ai/claims-engine/internal/export"
	repo "github.com/medclaim-ai/claims-engine/internal/repository"
)

var flagOutFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session's claims to an XLSX workbook",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&flagOutFile, "out", "claims.xlsx", "Output workbook path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if flagSession == "" {
		return fmt.Errorf("--session is required")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(true, false); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	pool, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer repo.Close(pool, logger)

	svc := export.NewService(repo.NewClaimRepository(pool, logger), logger)
	out, err := svc.ExportClaimsXLSX(ctx, flagSession)
	if err != nil {
		return err
	}

	if err := os.WriteFile(flagOutFile, out, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", flagOutFile, len(out))
	return nil
}
