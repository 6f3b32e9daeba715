package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthflow-server/models"
	"growthflow-server/types"
)

func TestAcknowledgeFeedback(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	fb := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)

	acked, err := AcknowledgeFeedback(db, o.emp1, fb.ID)
	require.NoError(t, err)
	assert.True(t, acked.IsAcknowledged)

	var stored models.Feedback
	require.NoError(t, db.First(&stored, fb.ID).Error)
	assert.True(t, stored.IsAcknowledged)
}

func TestAcknowledgeFeedbackTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	fb := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)

	_, err := AcknowledgeFeedback(db, o.emp1, fb.ID)
	require.NoError(t, err)

	_, err = AcknowledgeFeedback(db, o.emp1, fb.ID)
	var conflict *types.ConflictError
	require.ErrorAs(t, err, &conflict)

	// The flag survives the failed second attempt
	var stored models.Feedback
	require.NoError(t, db.First(&stored, fb.ID).Error)
	assert.True(t, stored.IsAcknowledged)
}

func TestAcknowledgeFeedbackOutsideVisibilityIsNotFound(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	fb := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)

	_, err := AcknowledgeFeedback(db, o.emp3, fb.ID)
	var notFound *types.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAcknowledgeFeedbackDeniedToManager(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	fb := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)

	_, err := AcknowledgeFeedback(db, o.managerA, fb.ID)
	var permission *types.PermissionError
	assert.ErrorAs(t, err, &permission)

	// Superusers bypass the role check
	_, err = AcknowledgeFeedback(db, o.super, fb.ID)
	assert.NoError(t, err)
}

func TestMarkRequestFulfilled(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	req := createRequest(t, db, o.emp3, &o.managerA.ID)

	fulfilled, err := MarkRequestFulfilled(db, o.managerA, req.ID)
	require.NoError(t, err)
	assert.True(t, fulfilled.IsFulfilled)

	_, err = MarkRequestFulfilled(db, o.managerA, req.ID)
	var conflict *types.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestMarkRequestFulfilledDeniedToRequester(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	req := createRequest(t, db, o.emp3, &o.managerA.ID)

	_, err := MarkRequestFulfilled(db, o.emp3, req.ID)
	var permission *types.PermissionError
	assert.ErrorAs(t, err, &permission)

	var stored models.FeedbackRequest
	require.NoError(t, db.First(&stored, req.ID).Error)
	assert.False(t, stored.IsFulfilled)
}

func TestMarkRequestFulfilledOutsideVisibilityIsNotFound(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)
	req := createRequest(t, db, o.emp3, &o.managerB.ID)

	_, err := MarkRequestFulfilled(db, o.managerA, req.ID)
	var notFound *types.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
