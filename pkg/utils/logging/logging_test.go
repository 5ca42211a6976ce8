package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("scoped", "request_id", "req-1")
	gt.B(t, strings.Contains(buf.String(), "req-1")).True()

	// a bare context falls back to the process-wide logger
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}

func TestSecretRedaction(t *testing.T) {
	type payload struct {
		Name    string `json:"name"`
		Comment string `json:"comment" masq:"secret"`
	}

	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)
	logger.Info("record", "payload", payload{Name: "card", Comment: "練完有感"})

	gt.B(t, strings.Contains(buf.String(), "card")).True()
	gt.B(t, strings.Contains(buf.String(), "練完有感")).False()
}
