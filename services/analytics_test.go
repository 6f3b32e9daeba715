package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"growthflow-server/models"
	"growthflow-server/types"
)

func backdateFeedback(t *testing.T, db *gorm.DB, fb models.Feedback, createdAt time.Time) {
	t.Helper()
	err := db.Model(&models.Feedback{}).Where("id = ?", fb.ID).
		Update("created_at", createdAt).Error
	require.NoError(t, err)
}

func TestManagerSummaryDeniedToEmployee(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	_, err := NewAnalyticsService(db).ManagerSummary(o.emp1, time.Now().UTC())
	var permission *types.PermissionError
	assert.ErrorAs(t, err, &permission)
}

func TestManagerSummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	summary, err := NewAnalyticsService(db).ManagerSummary(o.managerA, time.Now().UTC())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalFeedbackGivenByMe)
	assert.Zero(t, summary.TotalFeedbackForMyReports)
	assert.Equal(t, map[string]int64{
		models.SentimentPositive:         0,
		models.SentimentNeutral:          0,
		models.SentimentNeedsImprovement: 0,
	}, summary.SentimentTrendsGivenByMe)
	assert.Zero(t, summary.ReportsFeedbackAcknowledgmentStatus.Acknowledged)
	assert.Zero(t, summary.ReportsFeedbackAcknowledgmentStatus.Pending)
	assert.Empty(t, summary.MonthlyTrendsGivenByMe)
}

func TestManagerSummaryAggregates(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

	inWindow := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)
	backdateFeedback(t, db, inWindow, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))

	sameMonth := createFeedback(t, db, o.managerA, o.emp2, models.SentimentNeedsImprovement)
	backdateFeedback(t, db, sameMonth, time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC))

	current := createFeedback(t, db, o.managerA, o.emp1, models.SentimentNeutral)
	backdateFeedback(t, db, current, time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC))

	// Outside the trailing window: counted in totals, absent from trends
	old := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)
	backdateFeedback(t, db, old, time.Date(2023, time.June, 1, 9, 0, 0, 0, time.UTC))

	// Another manager's feedback to a report counts toward the
	// reports total but not the given total
	crossIn := createFeedback(t, db, o.managerB, o.emp1, models.SentimentPositive)
	backdateFeedback(t, db, crossIn, time.Date(2024, time.April, 3, 9, 0, 0, 0, time.UTC))
	_, err := AcknowledgeFeedback(db, o.emp1, crossIn.ID)
	require.NoError(t, err)

	summary, err := NewAnalyticsService(db).ManagerSummary(o.managerA, now)
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.TotalFeedbackGivenByMe)
	assert.Equal(t, int64(5), summary.TotalFeedbackForMyReports)
	assert.Equal(t, map[string]int64{
		models.SentimentPositive:         2,
		models.SentimentNeutral:          1,
		models.SentimentNeedsImprovement: 1,
	}, summary.SentimentTrendsGivenByMe)
	assert.Equal(t, int64(1), summary.ReportsFeedbackAcknowledgmentStatus.Acknowledged)
	assert.Equal(t, int64(4), summary.ReportsFeedbackAcknowledgmentStatus.Pending)

	require.Len(t, summary.MonthlyTrendsGivenByMe, 2)
	march := summary.MonthlyTrendsGivenByMe[0]
	assert.Equal(t, "2024-03", march.Month)
	assert.Equal(t, int64(2), march.Total)
	assert.Equal(t, int64(1), march.Positive)
	assert.Equal(t, int64(1), march.NeedsImprovement)

	april := summary.MonthlyTrendsGivenByMe[1]
	assert.Equal(t, "2024-04", april.Month)
	assert.Equal(t, int64(1), april.Total)
	assert.Equal(t, int64(1), april.Neutral)
}

func TestManagerSummaryUnknownSentiment(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	now := time.Now().UTC()

	createFeedback(t, db, o.managerA, o.emp1, "Mixed")

	summary, err := NewAnalyticsService(db).ManagerSummary(o.managerA, now)
	require.NoError(t, err)

	// Free-text sentiment counts toward totals but gets no map key
	assert.Equal(t, int64(1), summary.TotalFeedbackGivenByMe)
	assert.Len(t, summary.SentimentTrendsGivenByMe, 3)
	assert.Zero(t, summary.SentimentTrendsGivenByMe[models.SentimentPositive])

	require.Len(t, summary.MonthlyTrendsGivenByMe, 1)
	assert.Equal(t, int64(1), summary.MonthlyTrendsGivenByMe[0].Total)
	assert.Zero(t, summary.MonthlyTrendsGivenByMe[0].Positive)
}
