package analytics

import (
	"context"
	"math"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/core/port/out"
	"mailpilot/pkg/logger"

	"github.com/google/uuid"
)

var _ in.AnalyticsService = (*Service)(nil)

const recentActivityLimit = 10

type Service struct {
	emails    out.EmailRepository
	analytics out.AnalyticsRepository
	cache     out.SummaryCache
	ttl       time.Duration
	now       func() time.Time
}

// NewService builds the summary service. cache may be nil.
func NewService(emails out.EmailRepository, analytics out.AnalyticsRepository, cache out.SummaryCache, ttl time.Duration) *Service {
	return &Service{
		emails:    emails,
		analytics: analytics,
		cache:     cache,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*domain.AnalyticsSummary, error) {
	log := logger.WithContext(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			log.WithError(err).Warn("analytics cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	sent, err := s.emails.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.analytics.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := Compute(len(sent), rows, s.now())

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, userID, summary, s.ttl); err != nil {
			log.WithError(err).Warn("analytics cache write failed")
		}
	}

	return summary, nil
}

// Compute aggregates rows, which must be ordered by sent_at descending.
func Compute(sentCount int, rows []*domain.EmailAnalytics, now time.Time) *domain.AnalyticsSummary {
	summary := &domain.AnalyticsSummary{
		TotalEmailsSent:    sentCount,
		TotalDraftsCreated: sentCount + len(rows),
		RecentActivity:     make([]domain.EmailAnalytics, 0, recentActivityLimit),
		GeneratedAt:        now,
	}

	year, month, _ := now.Date()
	for i, row := range rows {
		if row.WasAIGenerated {
			summary.AIGeneratedEmails++
		}
		summary.TotalTimeSavedSeconds += row.TimeSavedSeconds

		y, m, _ := row.SentAt.In(now.Location()).Date()
		if y == year && m == month {
			summary.ThisMonth++
		}

		if i < recentActivityLimit {
			summary.RecentActivity = append(summary.RecentActivity, *row)
		}
	}

	if sentCount > 0 {
		summary.AvgTimeSavedPerEmail = int(math.Round(float64(summary.TotalTimeSavedSeconds) / float64(sentCount)))
	}

	return summary
}
