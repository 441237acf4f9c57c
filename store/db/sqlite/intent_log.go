package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/mirahq/mira/store"
)

func (d *DB) CreateIntentLog(ctx context.Context, create *store.IntentLog) (*store.IntentLog, error) {
	metadata := create.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal metadata")
	}

	createdTs := create.CreatedTs
	if createdTs.IsZero() {
		createdTs = time.Now()
	}

	result, err := d.db.ExecContext(ctx, `
		INSERT INTO mira_intent_log (
			conversation_id, topic, subtopic, intent_name, confidence,
			confidence_tier, selected_agent, selected_skill, user_message,
			metadata, created_ts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		create.ConversationID,
		create.Topic,
		create.Subtopic,
		create.Intent,
		create.Confidence,
		create.ConfidenceTier,
		create.SelectedAgent,
		create.SelectedSkill,
		create.UserMessage,
		string(metadataJSON),
		createdTs.Unix(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert intent log")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read insert id")
	}

	row := *create
	row.ID = id
	row.CreatedTs = createdTs
	return &row, nil
}

func (d *DB) ListIntentLogs(ctx context.Context, find *store.FindIntentLogs) ([]*store.IntentLog, error) {
	query := `
		SELECT id, conversation_id, topic, subtopic, intent_name, confidence,
			confidence_tier, selected_agent, selected_skill, user_message,
			metadata, created_ts
		FROM mira_intent_log`
	args := []any{}
	if find != nil && find.ConversationID != "" {
		query += " WHERE conversation_id = ?"
		args = append(args, find.ConversationID)
	}
	query += " ORDER BY created_ts DESC, id DESC"
	if find != nil && find.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query intent logs")
	}
	defer rows.Close()

	var list []*store.IntentLog
	for rows.Next() {
		var row store.IntentLog
		var metadataJSON string
		var createdTs int64
		if err := rows.Scan(
			&row.ID,
			&row.ConversationID,
			&row.Topic,
			&row.Subtopic,
			&row.Intent,
			&row.Confidence,
			&row.ConfidenceTier,
			&row.SelectedAgent,
			&row.SelectedSkill,
			&row.UserMessage,
			&metadataJSON,
			&createdTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan intent log")
		}
		if err := json.Unmarshal([]byte(metadataJSON), &row.Metadata); err != nil {
			row.Metadata = map[string]any{}
		}
		row.CreatedTs = time.Unix(createdTs, 0)
		list = append(list, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate intent logs")
	}
	return list, nil
}
