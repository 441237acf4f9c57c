package v1

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/mirahq/mira/internal/profile"
	"github.com/mirahq/mira/plugin/ai/router"
	"github.com/mirahq/mira/plugin/ai/taxonomy"
	routingerr "github.com/mirahq/mira/server/internal/errors"
	"github.com/mirahq/mira/internal/observability"
	"github.com/mirahq/mira/store"
)

// errorResponse is the JSON error envelope for every v1 endpoint.
type errorResponse struct {
	Code    routingerr.ErrorCode `json:"code"`
	Message string               `json:"message"`
}

func replyError(c echo.Context, status int, err *routingerr.RoutingError) error {
	slog.Debug("request failed",
		slog.String(observability.LogFieldErrorCode, string(err.GetCode())),
		slog.Int("status", status),
	)
	return c.JSON(status, errorResponse{Code: err.GetCode(), Message: err.Message})
}

// APIV1Service exposes the classification pipeline over HTTP.
type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Taxonomy     *taxonomy.Index
	Router       router.IntentRouter
	IntentLogger *store.IntentLogger

	// conversation topic history, keyed by conversation ID
	mu            sync.Mutex
	conversations map[string]*conversationState
}

type conversationState struct {
	TopicHistory []string
	LastSeen     time.Time
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(prof *profile.Profile, st *store.Store, idx *taxonomy.Index, rt router.IntentRouter) *APIV1Service {
	return &APIV1Service{
		Profile:       prof,
		Store:         st,
		Taxonomy:      idx,
		Router:        rt,
		IntentLogger:  store.NewIntentLogger(st, prof != nil && prof.IntentLogEnabled),
		conversations: make(map[string]*conversationState),
	}
}

// Register wires the v1 routes onto the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.GetHealth)

	g := echoServer.Group("/api/v1")
	g.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(20),
			Burst:     40,
			ExpiresIn: 3 * time.Minute,
		}),
		ErrorHandler: func(c echo.Context, err error) error {
			return replyError(c, http.StatusForbidden, routingerr.Internal("rate limit store failure", err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return replyError(c, http.StatusTooManyRequests, routingerr.RateLimitExceeded("rate limit exceeded"))
		},
	}))

	g.POST("/mira/classify", s.Classify)
	g.GET("/mira/taxonomy", s.GetTaxonomy)
	g.GET("/mira/conversations/:id/intents", s.ListConversationIntents)
	g.GET("/system/metrics", s.GetMetricsOverview)
}

// GetHealth reports liveness.
// GET /healthz
func (s *APIV1Service) GetHealth(c echo.Context) error {
	version := ""
	if s.Profile != nil {
		version = s.Profile.Version
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// topicHistory returns a copy of the conversation's topic history.
func (s *APIV1Service) topicHistory(conversationID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.conversations[conversationID]
	if !ok {
		return nil
	}
	out := make([]string, len(state.TopicHistory))
	copy(out, state.TopicHistory)
	return out
}

// commitTopic appends the topic to the conversation history.
func (s *APIV1Service) commitTopic(conversationID, topic string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.conversations[conversationID]
	if !ok {
		state = &conversationState{}
		s.conversations[conversationID] = state
	}
	state.TopicHistory = router.UpdateTopicHistory(state.TopicHistory, topic)
	state.LastSeen = time.Now()
	out := make([]string, len(state.TopicHistory))
	copy(out, state.TopicHistory)
	return out
}
