// Package store persists intent classification decisions for audit and
// offline analysis. Persistence is best-effort: classification never waits
// on or fails because of the store.
package store

import (
	"context"
	"time"
)

// IntentLog is one recorded classification decision.
type IntentLog struct {
	ID             int64
	ConversationID string
	Topic          string
	Subtopic       string
	Intent         string
	Confidence     float64
	ConfidenceTier string
	SelectedAgent  string
	SelectedSkill  string
	UserMessage    string
	Metadata       map[string]any
	CreatedTs      time.Time
}

// FindIntentLogs filters intent log listings.
type FindIntentLogs struct {
	ConversationID string
	Limit          int
}

// Driver is the database-specific persistence contract.
type Driver interface {
	CreateIntentLog(ctx context.Context, create *IntentLog) (*IntentLog, error)
	ListIntentLogs(ctx context.Context, find *FindIntentLogs) ([]*IntentLog, error)
	Close() error
}

// Store wraps a Driver.
type Store struct {
	driver Driver
}

// New creates a store over a driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// CreateIntentLog persists one classification decision.
func (s *Store) CreateIntentLog(ctx context.Context, create *IntentLog) (*IntentLog, error) {
	return s.driver.CreateIntentLog(ctx, create)
}

// ListIntentLogs returns recorded decisions, newest first.
func (s *Store) ListIntentLogs(ctx context.Context, find *FindIntentLogs) ([]*IntentLog, error) {
	return s.driver.ListIntentLogs(ctx, find)
}

// Close releases the underlying driver.
func (s *Store) Close() error {
	return s.driver.Close()
}
