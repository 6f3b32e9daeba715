package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthflow-server/models"
)

func TestCreateFeedbackRequestEmployeeOnly(t *testing.T) {
	router, db := newTestRouter(t)
	manager := seedUser(t, db, "alice", models.RoleManager, nil, false)
	seedUser(t, db, "carol", models.RoleEmployee, &manager.ID, false)

	recorder := doJSON(t, router, http.MethodPost, "/api/feedback-requests", "alice", map[string]interface{}{
		"reason": "project retro",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/api/feedback-requests", "carol", map[string]interface{}{
		"target_manager": manager.ID,
		"reason":         "project retro",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp models.FeedbackRequestResponse
	decodeBody(t, recorder, &resp)
	assert.Equal(t, "alice", resp.TargetManagerUsername)
	assert.False(t, resp.IsFulfilled)
}

func TestMarkFulfilledTransitions(t *testing.T) {
	router, db := newTestRouter(t)
	manager := seedUser(t, db, "alice", models.RoleManager, nil, false)
	emp := seedUser(t, db, "carol", models.RoleEmployee, &manager.ID, false)
	req := models.FeedbackRequest{RequesterID: emp.ID, TargetManagerID: &manager.ID, Reason: "retro"}
	require.NoError(t, db.Create(&req).Error)
	path := fmt.Sprintf("/api/feedback-requests/%d/mark-fulfilled", req.ID)

	// The requester cannot fulfill their own request
	recorder := doJSON(t, router, http.MethodPatch, path, "carol", nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = doJSON(t, router, http.MethodPatch, path, "alice", nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = doJSON(t, router, http.MethodPatch, path, "alice", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestTargetManagerCannotDeleteRequest(t *testing.T) {
	router, db := newTestRouter(t)
	manager := seedUser(t, db, "alice", models.RoleManager, nil, false)
	emp := seedUser(t, db, "carol", models.RoleEmployee, &manager.ID, false)
	req := models.FeedbackRequest{RequesterID: emp.ID, TargetManagerID: &manager.ID, Reason: "retro"}
	require.NoError(t, db.Create(&req).Error)
	path := fmt.Sprintf("/api/feedback-requests/%d", req.ID)

	recorder := doJSON(t, router, http.MethodDelete, path, "alice", nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = doJSON(t, router, http.MethodDelete, path, "carol", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUnassignedRequestHiddenFromManagers(t *testing.T) {
	router, db := newTestRouter(t)
	seedUser(t, db, "alice", models.RoleManager, nil, false)
	loner := seedUser(t, db, "frank", models.RoleEmployee, nil, false)
	req := models.FeedbackRequest{RequesterID: loner.ID, Reason: "anyone?"}
	require.NoError(t, db.Create(&req).Error)

	recorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/feedback-requests/%d", req.ID), "alice", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
