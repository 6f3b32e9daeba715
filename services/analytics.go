package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"growthflow-server/models"
)

// monthlyTrendWindow is the trailing window the dashboard trend covers.
const monthlyTrendWindow = 180 * 24 * time.Hour

// AcknowledgmentStatus summarizes how much of the reports' feedback has
// been read.
type AcknowledgmentStatus struct {
	Acknowledged int64 `json:"acknowledged"`
	Pending      int64 `json:"pending"`
}

// MonthlyTrend is one calendar-month bucket of feedback given by the
// manager, with per-sentiment sub-counts.
type MonthlyTrend struct {
	Month            string `json:"month"`
	Total            int64  `json:"total"`
	Positive         int64  `json:"positive"`
	Neutral          int64  `json:"neutral"`
	NeedsImprovement int64  `json:"needs_improvement"`
}

// ManagerSummary is the manager dashboard aggregate.
type ManagerSummary struct {
	TotalFeedbackGivenByMe              int64                `json:"total_feedback_given_by_me"`
	TotalFeedbackForMyReports           int64                `json:"total_feedback_for_my_reports"`
	SentimentTrendsGivenByMe            map[string]int64     `json:"sentiment_trends_given_by_me"`
	ReportsFeedbackAcknowledgmentStatus AcknowledgmentStatus `json:"reports_feedback_acknowledgment_status"`
	MonthlyTrendsGivenByMe              []MonthlyTrend       `json:"monthly_trends_given_by_me"`
}

// AnalyticsService computes manager-facing aggregates
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ManagerSummary builds the dashboard aggregate for u as of now. Access
// is restricted to managers and superusers. The sentiment map always
// carries the three known categories, zero-filled; other sentiment
// values count toward totals and acknowledgment stats but get no key.
// The monthly trend is sparse (months with no feedback are omitted) and
// ordered ascending.
func (s *AnalyticsService) ManagerSummary(u models.User, now time.Time) (*ManagerSummary, error) {
	if d := CanViewManagerSummary(u); !d.Allowed {
		return nil, d.Err()
	}

	summary := &ManagerSummary{
		SentimentTrendsGivenByMe: map[string]int64{
			models.SentimentPositive:         0,
			models.SentimentNeutral:          0,
			models.SentimentNeedsImprovement: 0,
		},
		MonthlyTrendsGivenByMe: []MonthlyTrend{},
	}

	if err := s.db.Model(&models.Feedback{}).
		Where("manager_id = ?", u.ID).
		Count(&summary.TotalFeedbackGivenByMe).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Feedback{}).
		Where("employee_id IN (?)", s.reportIDs(u)).
		Count(&summary.TotalFeedbackForMyReports).Error; err != nil {
		return nil, err
	}

	var sentimentRows []struct {
		Sentiment string
		Count     int64
	}
	if err := s.db.Model(&models.Feedback{}).
		Select("sentiment, COUNT(*) AS count").
		Where("manager_id = ?", u.ID).
		Group("sentiment").
		Scan(&sentimentRows).Error; err != nil {
		return nil, err
	}
	for _, row := range sentimentRows {
		if _, known := summary.SentimentTrendsGivenByMe[row.Sentiment]; known {
			summary.SentimentTrendsGivenByMe[row.Sentiment] = row.Count
		}
	}

	if err := s.db.Model(&models.Feedback{}).
		Where("employee_id IN (?) AND is_acknowledged = ?", s.reportIDs(u), true).
		Count(&summary.ReportsFeedbackAcknowledgmentStatus.Acknowledged).Error; err != nil {
		return nil, err
	}
	summary.ReportsFeedbackAcknowledgmentStatus.Pending =
		summary.TotalFeedbackForMyReports - summary.ReportsFeedbackAcknowledgmentStatus.Acknowledged

	trends, err := s.monthlyTrends(u, now)
	if err != nil {
		return nil, err
	}
	summary.MonthlyTrendsGivenByMe = trends

	return summary, nil
}

// monthlyTrends buckets the trailing window's feedback by calendar
// month. The grouping happens in process rather than in SQL so the
// bucketing behaves identically across database dialects; the window
// bounds the row count.
func (s *AnalyticsService) monthlyTrends(u models.User, now time.Time) ([]MonthlyTrend, error) {
	var rows []struct {
		CreatedAt time.Time
		Sentiment string
	}
	if err := s.db.Model(&models.Feedback{}).
		Select("created_at, sentiment").
		Where("manager_id = ? AND created_at >= ?", u.ID, now.Add(-monthlyTrendWindow)).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyTrend)
	for _, row := range rows {
		label := row.CreatedAt.UTC().Format("2006-01")
		bucket := buckets[label]
		if bucket == nil {
			bucket = &MonthlyTrend{Month: label}
			buckets[label] = bucket
		}
		bucket.Total++
		switch row.Sentiment {
		case models.SentimentPositive:
			bucket.Positive++
		case models.SentimentNeutral:
			bucket.Neutral++
		case models.SentimentNeedsImprovement:
			bucket.NeedsImprovement++
		}
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	trends := make([]MonthlyTrend, 0, len(labels))
	for _, label := range labels {
		trends = append(trends, *buckets[label])
	}
	return trends, nil
}

// reportIDs is the subquery selecting u's direct reports.
func (s *AnalyticsService) reportIDs(u models.User) *gorm.DB {
	return s.db.Model(&models.User{}).Select("id").Where("manager_id = ?", u.ID)
}
