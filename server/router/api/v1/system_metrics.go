package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mirahq/mira/internal/observability"
)

// MetricsOverviewResponse summarizes classification activity.
type MetricsOverviewResponse struct {
	ClassifyTotal  int64                                          `json:"classify_total"`
	ClassifyFailed int64                                          `json:"classify_failed"`
	CacheHits      int64                                          `json:"cache_hits"`
	CacheHitRate   float64                                        `json:"cache_hit_rate"`
	SuccessRate    float64                                        `json:"success_rate"`
	LLMRefinements int64                                          `json:"llm_refinements"`
	Topics         map[string]*observability.TopicMetricsSnapshot `json:"topics"`
}

// GetMetricsOverview returns the classification metrics overview.
// GET /api/v1/system/metrics
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snapshot := observability.GlobalMetrics().Snapshot()
	return c.JSON(http.StatusOK, MetricsOverviewResponse{
		ClassifyTotal:  snapshot.ClassifyTotal,
		ClassifyFailed: snapshot.ClassifyFailed,
		CacheHits:      snapshot.CacheHits,
		CacheHitRate:   snapshot.CacheHitRate(),
		SuccessRate:    snapshot.SuccessRate(),
		LLMRefinements: snapshot.LLMRefinements,
		Topics:         snapshot.TopicMetrics,
	})
}
