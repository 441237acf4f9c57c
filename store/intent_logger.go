package store

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// LogStatus reports the outcome of an intent-log attempt.
type LogStatus string

const (
	LogStatusRecorded LogStatus = "recorded"
	LogStatusDisabled LogStatus = "disabled"
	LogStatusError    LogStatus = "error"
)

// LogResult is returned to the caller as a status field; errors are never
// re-thrown into the classification path.
type LogResult struct {
	Status LogStatus
	Err    error
}

// maxLoggedMessageLen caps the persisted user message length, in runes.
const maxLoggedMessageLen = 2000

// IntentLogger writes classification decisions through a Store.
// A nil store or Enabled=false turns every call into a recorded no-op.
type IntentLogger struct {
	store   *Store
	enabled bool
}

// NewIntentLogger creates an intent logger.
func NewIntentLogger(s *Store, enabled bool) *IntentLogger {
	return &IntentLogger{store: s, enabled: enabled}
}

// Log persists one decision. Any failure is reported in the result, not
// propagated.
func (l *IntentLogger) Log(ctx context.Context, entry *IntentLog) LogResult {
	if l == nil || !l.enabled || l.store == nil {
		slog.Info("intent log disabled",
			"topic", entry.Topic,
			"intent", entry.Intent,
			"confidence", entry.Confidence)
		return LogResult{Status: LogStatusDisabled}
	}

	row := *entry
	row.Confidence = math.Round(row.Confidence*1000) / 1000
	row.UserMessage = truncateRunes(row.UserMessage, maxLoggedMessageLen)
	if row.CreatedTs.IsZero() {
		row.CreatedTs = time.Now()
	}

	if _, err := l.store.CreateIntentLog(ctx, &row); err != nil {
		slog.Error("intent log insert failed", "error", err, "intent", row.Intent)
		return LogResult{Status: LogStatusError, Err: err}
	}
	return LogResult{Status: LogStatusRecorded}
}

// LogAsync fires Log on a background goroutine with its own timeout, so the
// response path never blocks on persistence.
func (l *IntentLogger) LogAsync(entry *IntentLog) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		l.Log(ctx, entry)
	}()
}

// truncateRunes caps s at limit runes, ellipsis included.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
