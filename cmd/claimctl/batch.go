package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/medclaim-ai/claims-engine/internal/async"
	"github.com/medclaim-ai/claims-engine/internal/common"
)

var (
	flagSessionsFile string
	flagWorkers      int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Build claims for many sessions concurrently",
	Long: "Reads session identifiers (one per line) and runs the claim stage for each " +
		"through a worker pool. Requires --db; each session must already have parsed " +
		"policy and invoice documents.",
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&flagSessionsFile, "sessions", "", "Path to a file of session identifiers (required)")
	f.IntVar(&flagWorkers, "workers", 4, "Worker pool size")
	_ = batchCmd.MarkFlagRequired("sessions")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if !flagUseDB {
		return fmt.Errorf("batch requires --db")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	_, proc, cleanup, err := buildStage(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	file, err := os.Open(flagSessionsFile)
	if err != nil {
		return fmt.Errorf("open sessions file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	queue := async.NewProcessorQueue(proc, logger, async.WithWorkers(flagWorkers))

	queued := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		sessionID := strings.TrimSpace(scanner.Text())
		if sessionID == "" || strings.HasPrefix(sessionID, "#") {
			continue
		}
		if v := common.NewValidator().Field("session_id", sessionID, common.Required, common.MaxLength(128)); v.HasErrors() {
			logger.Warn("skipping session", "session_id", sessionID, "reason", v.ErrorMessage())
			continue
		}
		if err := queue.Enqueue(ctx, async.Job{
			SessionID:   sessionID,
			Vendor:      flagVendor,
			SubmittedAt: time.Now(),
			TraceID:     uuid.New().String(),
		}); err != nil {
			logger.Error("enqueue failed", "session_id", sessionID, "error", err)
			continue
		}
		queued++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read sessions file: %w", err)
	}

	queue.Shutdown(ctx)
	fmt.Printf("processed %d sessions\n", queued)
	return nil
}
