package todo

import (
	"context"
	"net/http"
)

const statisticsPath = basePath + "/statistics"

// StatisticsService exposes the upstream aggregate counters.
type StatisticsService struct {
	api Doer
}

func NewStatisticsService(api Doer) *StatisticsService {
	return &StatisticsService{api: api}
}

// Simple fetches the overall completion counters for the query.
func (s *StatisticsService) Simple(ctx context.Context, q Query, mode QueryMode) (*Statistics, error) {
	path, err := buildPath(statisticsPath, q, mode, nil)
	if err != nil {
		return nil, err
	}
	body, err := call(ctx, s.api, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return DecodeStatistics(body)
}

// Grouped fetches counters keyed by the upstream-defined group.
func (s *StatisticsService) Grouped(ctx context.Context, groupBy string, q Query, mode QueryMode) (GroupedStatistics, error) {
	path, err := buildPath(statisticsPath, q, mode, map[string]string{"groupBy": groupBy})
	if err != nil {
		return nil, err
	}
	body, err := call(ctx, s.api, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return DecodeGroupedStatistics(body)
}
