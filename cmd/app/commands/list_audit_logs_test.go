package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunListAuditLogs_InvalidOffset(t *testing.T) {
	err := RunListAuditLogs(context.Background(), -1, 50, "text")

	require.Error(t, err)
	require.Contains(t, err.Error(), "offset must be a non-negative number")
}

func TestRunListAuditLogs_InvalidLimit(t *testing.T) {
	err := RunListAuditLogs(context.Background(), 0, 0, "text")

	require.Error(t, err)
	require.Contains(t, err.Error(), "limit must be between 1 and 100")
}
