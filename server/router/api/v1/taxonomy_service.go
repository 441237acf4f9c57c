package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	routingerr "github.com/mirahq/mira/server/internal/errors"
	"github.com/mirahq/mira/store"
)

// TaxonomyIntent is one intent entry in the taxonomy listing.
type TaxonomyIntent struct {
	Topic          string   `json:"topic"`
	Subtopic       string   `json:"subtopic"`
	Intent         string   `json:"intent"`
	DisplayName    string   `json:"display_name,omitempty"`
	ExamplePhrases []string `json:"example_phrases,omitempty"`
	RequiredFields []string `json:"required_fields,omitempty"`
}

// TaxonomyResponse is the body of GET /api/v1/mira/taxonomy.
type TaxonomyResponse struct {
	IntentCount int              `json:"intent_count"`
	Intents     []TaxonomyIntent `json:"intents"`
}

// GetTaxonomy lists the loaded intent taxonomy.
// GET /api/v1/mira/taxonomy
func (s *APIV1Service) GetTaxonomy(c echo.Context) error {
	entries := s.Taxonomy.Entries()
	intents := make([]TaxonomyIntent, 0, len(entries))
	for _, e := range entries {
		intents = append(intents, TaxonomyIntent{
			Topic:          e.Topic,
			Subtopic:       e.Subtopic,
			Intent:         e.Intent,
			DisplayName:    e.DisplayName,
			ExamplePhrases: e.ExamplePhrases,
			RequiredFields: e.RequiredFields,
		})
	}
	return c.JSON(http.StatusOK, TaxonomyResponse{
		IntentCount: len(intents),
		Intents:     intents,
	})
}

// ListConversationIntents returns the persisted intent log for a conversation,
// newest first.
// GET /api/v1/mira/conversations/:id/intents
func (s *APIV1Service) ListConversationIntents(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return replyError(c, http.StatusBadRequest, routingerr.InvalidArgument("conversation id is required"))
	}
	if s.Store == nil {
		return replyError(c, http.StatusNotFound, routingerr.StoreUnavailable("intent log is disabled", nil))
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return replyError(c, http.StatusBadRequest, routingerr.InvalidArgument("invalid limit"))
		}
		limit = parsed
	}

	logs, err := s.Store.ListIntentLogs(c.Request().Context(), &store.FindIntentLogs{
		ConversationID: conversationID,
		Limit:          limit,
	})
	if err != nil {
		return replyError(c, http.StatusInternalServerError, routingerr.StoreUnavailable("failed to list intent logs", err))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"intents":         logs,
	})
}
