package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growthflow-server/database"
	"growthflow-server/models"
	"growthflow-server/services"
	"growthflow-server/types"
)

// RegisterFeedbackRequestRoutes registers the feedback request routes
func RegisterFeedbackRequestRoutes(router *gin.RouterGroup) {
	requestRoutes := router.Group("/feedback-requests")
	{
		requestRoutes.GET("", listFeedbackRequests)
		requestRoutes.POST("", createFeedbackRequest)
		requestRoutes.GET("/:id", getFeedbackRequest)
		requestRoutes.PATCH("/:id", patchFeedbackRequest)
		requestRoutes.DELETE("/:id", deleteFeedbackRequest)
		requestRoutes.PATCH("/:id/mark-fulfilled", markRequestFulfilled)
	}
}

func resolveFeedbackRequest(user models.User, id uint) (*models.FeedbackRequest, error) {
	var req models.FeedbackRequest
	err := services.VisibleFeedbackRequests(database.DB, user).
		Preload("Requester").Preload("TargetManager").First(&req, id).Error
	if err != nil {
		return nil, &types.NotFoundError{Resource: "feedback request"}
	}
	return &req, nil
}

func listFeedbackRequests(c *gin.Context) {
	user := currentUser(c)

	var items []models.FeedbackRequest
	err := services.VisibleFeedbackRequests(database.DB, user).
		Preload("Requester").Preload("TargetManager").Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback requests"})
		return
	}

	responses := make([]models.FeedbackRequestResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// createFeedbackRequest files a request for feedback. Employees only;
// the requester is forced to the authenticated caller.
func createFeedbackRequest(c *gin.Context) {
	user := currentUser(c)
	if d := services.CanCreateFeedbackRequest(user); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	var req models.FeedbackRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	request := models.FeedbackRequest{
		RequesterID:     user.ID,
		TargetManagerID: req.TargetManager,
		Reason:          req.Reason,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		respondError(c, err)
		return
	}

	var created models.FeedbackRequest
	err := database.DB.Preload("Requester").Preload("TargetManager").First(&created, request.ID).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request created but failed to load details"})
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func getFeedbackRequest(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := resolveFeedbackRequest(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideFeedbackRequest(user, *request, services.ActionRead); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// patchFeedbackRequest applies a partial update. The requester may edit
// reason and target; the targeted manager may only flip fulfillment.
func patchFeedbackRequest(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := resolveFeedbackRequest(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideFeedbackRequest(user, *request, services.ActionPatch); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	patch, err := bindPatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	requesterEditing := user.IsSuperuser || request.RequesterID == user.ID

	updates := make(map[string]interface{})
	if raw, present := patch["reason"]; present {
		if !requesterEditing {
			respondError(c, &types.PermissionError{Reason: "only the requester may edit the reason"})
			return
		}
		var reason string
		if err := unmarshalField(raw, &reason); err != nil {
			respondError(c, err)
			return
		}
		if reason == "" {
			respondError(c, &types.ValidationError{Message: "reason is required"})
			return
		}
		updates["reason"] = reason
	}
	if raw, present := patch["target_manager"]; present {
		if !requesterEditing {
			respondError(c, &types.PermissionError{Reason: "only the requester may retarget the request"})
			return
		}
		var target *uint
		if err := unmarshalField(raw, &target); err != nil {
			respondError(c, err)
			return
		}
		if target != nil {
			var mgr models.User
			if err := database.DB.First(&mgr, *target).Error; err != nil || !mgr.IsManager() {
				respondError(c, &types.ValidationError{Message: "target manager reference must have the manager role"})
				return
			}
			updates["target_manager_id"] = *target
		} else {
			updates["target_manager_id"] = nil
		}
	}
	if raw, present := patch["is_fulfilled"]; present {
		var fulfilled bool
		if err := unmarshalField(raw, &fulfilled); err != nil {
			respondError(c, err)
			return
		}
		if fulfilled && !request.IsFulfilled {
			if _, err := services.MarkRequestFulfilled(database.DB, user, id); err != nil {
				respondError(c, err)
				return
			}
		} else if !fulfilled && request.IsFulfilled {
			respondError(c, &types.ValidationError{Message: "fulfillment cannot be withdrawn"})
			return
		}
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&models.FeedbackRequest{}).Where("id = ?", request.ID).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	updated, err := resolveFeedbackRequest(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

// deleteFeedbackRequest removes a request. Requester only; the targeted
// manager cannot delete.
func deleteFeedbackRequest(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := resolveFeedbackRequest(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideFeedbackRequest(user, *request, services.ActionDelete); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	if err := database.DB.Delete(&models.FeedbackRequest{}, request.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback request deleted successfully"})
}

// markRequestFulfilled runs the one-way fulfillment transition
func markRequestFulfilled(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := services.MarkRequestFulfilled(database.DB, user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}
