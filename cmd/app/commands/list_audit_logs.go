package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cuacalab/forecast-api/internal/app"
	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	"github.com/cuacalab/forecast-api/internal/config"
)

// RunListAuditLogs prints audit log entries ordered by request number
// descending. The audit trail carries organization names and token ids, so it
// is only exposed here and never over HTTP.
func RunListAuditLogs(ctx context.Context, offset, limit int, format string) error {
	if offset < 0 {
		return fmt.Errorf("offset must be a non-negative number, got: %d", offset)
	}
	if limit < 1 || limit > 100 {
		return fmt.Errorf("limit must be between 1 and 100, got: %d", limit)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	defer closeContainer(container, logger)

	auditLogUseCase, err := container.AuditLogUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit log use case: %w", err)
	}

	logs, err := auditLogUseCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list audit logs: %w", err)
	}

	if format == "json" {
		outputAuditLogsJSON(logs)
	} else {
		outputAuditLogsText(logs)
	}

	return nil
}

// outputAuditLogsText outputs the entries in human-readable text format.
func outputAuditLogsText(logs []*authDomain.AuditLog) {
	if len(logs) == 0 {
		fmt.Println("No audit log entries found")
		return
	}

	for _, entry := range logs {
		fmt.Printf("#%d  %s  %s %s  capability=%d  organization=%s  token=%s\n",
			entry.RequestNo,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Method,
			entry.Endpoint,
			entry.CapabilityID,
			entry.Organization,
			entry.TokenID,
		)
	}
}

// outputAuditLogsJSON outputs the entries in JSON format for machine consumption.
func outputAuditLogsJSON(logs []*authDomain.AuditLog) {
	entries := make([]map[string]any, 0, len(logs))
	for _, entry := range logs {
		entries = append(entries, map[string]any{
			"request_no":    entry.RequestNo,
			"organization":  entry.Organization,
			"capability_id": int(entry.CapabilityID),
			"endpoint":      entry.Endpoint,
			"method":        entry.Method,
			"params":        entry.Params,
			"token_id":      entry.TokenID.String(),
			"created_at":    entry.CreatedAt,
		})
	}

	jsonBytes, err := json.MarshalIndent(map[string]any{"audit_logs": entries}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
