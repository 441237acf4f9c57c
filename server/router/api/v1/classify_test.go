package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/mira/internal/profile"
	"github.com/mirahq/mira/plugin/ai/router"
	"github.com/mirahq/mira/plugin/ai/taxonomy"
)

func newTestAPI(t *testing.T) *APIV1Service {
	t.Helper()
	idx, err := taxonomy.Default()
	require.NoError(t, err)
	prof := &profile.Profile{Mode: "dev", Port: 8091, Version: "test"}
	return NewAPIV1Service(prof, nil, idx, router.NewMockIntentRouter())
}

func doClassify(t *testing.T, api *APIV1Service, body string) (*httptest.ResponseRecorder, *ClassifyResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mira/classify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, api.Classify(c))
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	resp := &ClassifyResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	return rec, resp
}

func TestClassify_HappyPath(t *testing.T) {
	api := newTestAPI(t)

	rec, resp := doClassify(t, api, `{
		"message": "what are my sales trends this quarter",
		"module": "analytics",
		"page": "/analytics"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "analytics", resp.Classification.Topic)
	assert.Equal(t, "view_sales_trends", resp.Classification.Intent)
	assert.NotEmpty(t, resp.ConversationID, "a conversation id is minted when none is supplied")
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "ops__analytics_explain", resp.Decision.NextSkill)
	assert.Equal(t, "mira_ops_task_agent", resp.Decision.NextAgent)
	assert.Equal(t, []string{"analytics"}, resp.TopicHistory)
	assert.False(t, resp.NeedsClarification, "high tier runs unprompted")
}

func TestClassify_UnknownModuleRejected(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := doClassify(t, api, `{"message": "hello", "module": "warehouse"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify_MalformedBody(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := doClassify(t, api, `{"message": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify_HintMetadataDrivesSkill(t *testing.T) {
	api := newTestAPI(t)

	rec, resp := doClassify(t, api, `{
		"message": "what are my sales trends this quarter",
		"module": "analytics",
		"metadata": {"nextSkill": "fna__case_overview"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fna__case_overview", resp.Decision.NextSkill)
	assert.Equal(t, "mira_fna_advisor_agent", resp.Decision.NextAgent)
	assert.Equal(t, "hint_skill", resp.Decision.Reason)
}

func TestClassify_ConversationTopicHistory(t *testing.T) {
	api := newTestAPI(t)

	rec, first := doClassify(t, api, `{
		"message": "show my kpi dashboard",
		"module": "analytics",
		"conversation_id": "conv-1"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"analytics"}, first.TopicHistory)

	// A confident switch to another topic is committed to the history and
	// surfaces a confirmation prompt before anything executes.
	rec, second := doClassify(t, api, `{
		"message": "add a task to call back tomorrow",
		"module": "todo",
		"conversation_id": "conv-1"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"analytics", "todo"}, second.TopicHistory)
	assert.Equal(t,
		"It looks like you want to switch from analytics to todo. Would you like me to continue with todo?",
		second.TransitionMessage)
	assert.True(t, second.NeedsClarification, "a confirmed topic jump interrupts even at high confidence")
	assert.Equal(t, second.TransitionMessage, second.ClarificationMessage,
		"the transition confirmation doubles as the clarification prompt")
}

func TestClassify_LowConfidenceSwitchStaysQuiet(t *testing.T) {
	api := newTestAPI(t)
	mock := router.NewMockIntentRouter()
	mock.Overrides["vague utterance"] = router.Classification{
		Topic:          "fna",
		Subtopic:       "general",
		Intent:         "fna__generate_recommendation",
		Confidence:     0.3,
		ConfidenceTier: router.TierLow,
	}
	api.Router = mock

	rec, first := doClassify(t, api, `{
		"message": "show my kpi dashboard",
		"module": "analytics",
		"conversation_id": "conv-2"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"analytics"}, first.TopicHistory)

	rec, second := doClassify(t, api, `{
		"message": "vague utterance",
		"conversation_id": "conv-2"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Below the switch threshold there is no topic confirmation; the low
	// tier still asks for more detail, and the history records the
	// classified topic regardless.
	assert.True(t, second.NeedsClarification)
	assert.Empty(t, second.TransitionMessage)
	assert.Equal(t,
		"I want to make sure I get this right. Could you tell me a bit more about what you need?",
		second.ClarificationMessage)
	assert.Equal(t, []string{"analytics", "fna"}, second.TopicHistory)
}

func TestGetHealth(t *testing.T) {
	api := newTestAPI(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, api.GetHealth(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGetTaxonomy(t *testing.T) {
	api := newTestAPI(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mira/taxonomy", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, api.GetTaxonomy(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := &TaxonomyResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	assert.Equal(t, api.Taxonomy.Len(), resp.IntentCount)
	assert.NotEmpty(t, resp.Intents)
}
