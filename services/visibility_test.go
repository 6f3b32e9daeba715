package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthflow-server/models"
)

func TestVisibleUsersByRole(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	var all []models.User
	require.NoError(t, VisibleUsers(db, o.super).Find(&all).Error)
	assert.Len(t, all, 7)

	var mine []models.User
	require.NoError(t, VisibleUsers(db, o.managerA).Find(&mine).Error)
	names := make([]string, 0, len(mine))
	for _, u := range mine {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"alice", "carol", "dave"}, names)

	var self []models.User
	require.NoError(t, VisibleUsers(db, o.emp1).Find(&self).Error)
	require.Len(t, self, 1)
	assert.Equal(t, o.emp1.ID, self[0].ID)
}

func TestVisibleFeedbackManagerSeesGivenAndReceived(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	own := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)
	crossIn := createFeedback(t, db, o.managerB, o.emp1, models.SentimentNeutral)
	other := createFeedback(t, db, o.managerB, o.emp3, models.SentimentPositive)

	ids := feedbackIDs(t, VisibleFeedback(db, o.managerA))
	assert.ElementsMatch(t, []uint{own.ID, crossIn.ID}, ids)

	// A row matching both the given and received clauses appears once
	assert.Len(t, ids, 2)

	ids = feedbackIDs(t, VisibleFeedback(db, o.managerB))
	assert.ElementsMatch(t, []uint{crossIn.ID, other.ID}, ids)
}

func TestVisibleFeedbackEmployeeSeesOnlyReceived(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	mine := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)
	createFeedback(t, db, o.managerA, o.emp2, models.SentimentNeutral)

	ids := feedbackIDs(t, VisibleFeedback(db, o.emp1))
	assert.Equal(t, []uint{mine.ID}, ids)
}

func TestVisibleCommentsThreadAccess(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	fb := createFeedback(t, db, o.managerA, o.emp1, models.SentimentPositive)
	fromManager := createComment(t, db, fb, o.managerA, "keep it up")
	fromEmployee := createComment(t, db, fb, o.emp1, "thanks")

	// The thread filter opens the whole thread to any caller
	var thread []models.Comment
	require.NoError(t, VisibleComments(db, o.emp3, &fb.ID).Find(&thread).Error)
	assert.Len(t, thread, 2)
	assert.Equal(t, fromManager.ID, thread[0].ID)
	assert.Equal(t, fromEmployee.ID, thread[1].ID)

	// Without the filter callers fall back to their own comments
	var own []models.Comment
	require.NoError(t, VisibleComments(db, o.emp1, nil).Find(&own).Error)
	require.Len(t, own, 1)
	assert.Equal(t, fromEmployee.ID, own[0].ID)

	var all []models.Comment
	require.NoError(t, VisibleComments(db, o.super, nil).Find(&all).Error)
	assert.Len(t, all, 2)
}

func TestVisibleFeedbackRequestsByRole(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	targeted := createRequest(t, db, o.emp3, &o.managerA.ID)
	fromReport := createRequest(t, db, o.emp1, nil)
	unassigned := createRequest(t, db, o.loner, nil)

	var forManager []models.FeedbackRequest
	require.NoError(t, VisibleFeedbackRequests(db, o.managerA).Find(&forManager).Error)
	ids := make([]uint, 0, len(forManager))
	for _, r := range forManager {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []uint{targeted.ID, fromReport.ID}, ids)

	// A request with neither a target nor a reporting link is visible
	// to superusers only
	var forManagerB []models.FeedbackRequest
	require.NoError(t, VisibleFeedbackRequests(db, o.managerB).Find(&forManagerB).Error)
	for _, r := range forManagerB {
		assert.NotEqual(t, unassigned.ID, r.ID)
	}

	var forSuper []models.FeedbackRequest
	require.NoError(t, VisibleFeedbackRequests(db, o.super).Find(&forSuper).Error)
	assert.Len(t, forSuper, 3)

	var forRequester []models.FeedbackRequest
	require.NoError(t, VisibleFeedbackRequests(db, o.loner).Find(&forRequester).Error)
	require.Len(t, forRequester, 1)
	assert.Equal(t, unassigned.ID, forRequester[0].ID)
}

func TestVisiblePeerFeedbackByRole(t *testing.T) {
	db := newTestDB(t)
	o := newOrg(t, db)

	withinTeam := createPeerFeedback(t, db, o.emp1, o.emp2, false)
	crossTeam := createPeerFeedback(t, db, o.emp3, o.emp1, true)

	var forGiver []models.PeerFeedback
	require.NoError(t, VisiblePeerFeedback(db, o.emp3).Find(&forGiver).Error)
	require.Len(t, forGiver, 1)
	assert.Equal(t, crossTeam.ID, forGiver[0].ID)

	// Manager A sees both: emp1 and emp2 report to them
	var forManagerA []models.PeerFeedback
	require.NoError(t, VisiblePeerFeedback(db, o.managerA).Find(&forManagerA).Error)
	ids := make([]uint, 0, len(forManagerA))
	for _, pf := range forManagerA {
		ids = append(ids, pf.ID)
	}
	assert.ElementsMatch(t, []uint{withinTeam.ID, crossTeam.ID}, ids)

	// The loner is on neither side of either entry
	var forLoner []models.PeerFeedback
	require.NoError(t, VisiblePeerFeedback(db, o.loner).Find(&forLoner).Error)
	assert.Empty(t, forLoner)
}
