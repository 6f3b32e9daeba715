package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"growthflow-server/database"
	"growthflow-server/models"
	"growthflow-server/services"
	"growthflow-server/types"
)

// RegisterFeedbackRoutes registers all feedback-related routes
func RegisterFeedbackRoutes(router *gin.RouterGroup) {
	feedbackRoutes := router.Group("/feedback")
	{
		feedbackRoutes.GET("", listFeedback)
		feedbackRoutes.POST("", createFeedback)
		feedbackRoutes.GET("/manager-summary", managerSummary)
		feedbackRoutes.GET("/:id", getFeedback)
		feedbackRoutes.PUT("/:id", updateFeedback)
		feedbackRoutes.PATCH("/:id", patchFeedback)
		feedbackRoutes.DELETE("/:id", deleteFeedback)
		feedbackRoutes.PATCH("/:id/acknowledge", acknowledgeFeedback)
		feedbackRoutes.GET("/:id/export-pdf", exportFeedbackPDF)
	}
}

// feedbackPreload attaches everything the response representation needs.
func feedbackPreload(q *gorm.DB) *gorm.DB {
	return q.Preload("Manager").Preload("Employee").
		Preload("Comments", func(sub *gorm.DB) *gorm.DB { return sub.Order("created_at, id") }).
		Preload("Comments.Author")
}

// resolveFeedback looks up a single feedback row through the caller's
// visibility set; rows outside it surface as not found.
func resolveFeedback(user models.User, id uint) (*models.Feedback, error) {
	var fb models.Feedback
	err := feedbackPreload(services.VisibleFeedback(database.DB, user)).First(&fb, id).Error
	if err != nil {
		return nil, &types.NotFoundError{Resource: "feedback"}
	}
	return &fb, nil
}

// listFeedback returns the feedback visible to the caller, newest first
func listFeedback(c *gin.Context) {
	user := currentUser(c)

	var items []models.Feedback
	if err := feedbackPreload(services.VisibleFeedback(database.DB, user)).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}

	responses := make([]models.FeedbackResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// createFeedback creates a feedback record. The manager is forced to
// the authenticated creator regardless of the request body.
func createFeedback(c *gin.Context) {
	user := currentUser(c)
	if d := services.CanCreateFeedback(user); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	var req models.FeedbackCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	fb := models.Feedback{
		ManagerID:      user.ID,
		EmployeeID:     req.Employee,
		Strengths:      req.Strengths,
		AreasToImprove: req.AreasToImprove,
		Sentiment:      req.Sentiment,
	}
	if err := database.DB.Create(&fb).Error; err != nil {
		respondError(c, err)
		return
	}

	var created models.Feedback
	if err := feedbackPreload(database.DB).First(&created, fb.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedback created but failed to load details"})
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

// getFeedback returns a single feedback record
func getFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	fb, err := resolveFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	// Object-level recheck on top of list membership
	if d := services.DecideFeedback(user, *fb, services.ActionRead, nil); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	c.JSON(http.StatusOK, fb.ToResponse())
}

// updateFeedback replaces the mutable fields. Only the authoring
// manager may fully edit.
func updateFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	fb, err := resolveFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideFeedback(user, *fb, services.ActionUpdate, nil); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	var req models.FeedbackUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	var emp models.User
	if err := database.DB.First(&emp, req.Employee).Error; err != nil || !emp.IsEmployee() {
		respondError(c, &types.ValidationError{Message: "employee reference must have the employee role"})
		return
	}

	updates := map[string]interface{}{
		"employee_id":      req.Employee,
		"strengths":        req.Strengths,
		"areas_to_improve": req.AreasToImprove,
		"sentiment":        req.Sentiment,
	}
	if err := database.DB.Model(fb).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}

	updated, err := resolveFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

// patchFeedback applies a partial update. The authoring manager may
// patch any field; the receiving employee only the lone
// is_acknowledged field, which runs the acknowledge transition.
func patchFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	fb, err := resolveFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	patch, err := bindPatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	if d := services.DecideFeedback(user, *fb, services.ActionPatch, patchKeys(patch)); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	// Employee path: the only permitted shape is the acknowledge
	// transition.
	if user.IsEmployee() && !user.IsSuperuser && fb.EmployeeID == user.ID && fb.ManagerID != user.ID {
		var acknowledged bool
		if err := unmarshalField(patch["is_acknowledged"], &acknowledged); err != nil {
			respondError(c, err)
			return
		}
		if !acknowledged {
			respondError(c, &types.ValidationError{Message: "acknowledgment cannot be withdrawn"})
			return
		}
		result, err := services.AcknowledgeFeedback(database.DB, user, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result.ToResponse())
		return
	}

	updates := make(map[string]interface{})
	if raw, present := patch["employee"]; present {
		var employeeID uint
		if err := unmarshalField(raw, &employeeID); err != nil {
			respondError(c, err)
			return
		}
		var emp models.User
		if err := database.DB.First(&emp, employeeID).Error; err != nil || !emp.IsEmployee() {
			respondError(c, &types.ValidationError{Message: "employee reference must have the employee role"})
			return
		}
		updates["employee_id"] = employeeID
	}
	if raw, present := patch["strengths"]; present {
		var strengths string
		if err := unmarshalField(raw, &strengths); err != nil {
			respondError(c, err)
			return
		}
		updates["strengths"] = strengths
	}
	if raw, present := patch["areas_to_improve"]; present {
		var areas string
		if err := unmarshalField(raw, &areas); err != nil {
			respondError(c, err)
			return
		}
		updates["areas_to_improve"] = areas
	}
	if raw, present := patch["sentiment"]; present {
		var sentiment string
		if err := unmarshalField(raw, &sentiment); err != nil {
			respondError(c, err)
			return
		}
		updates["sentiment"] = sentiment
	}
	if raw, present := patch["is_acknowledged"]; present {
		var acknowledged bool
		if err := unmarshalField(raw, &acknowledged); err != nil {
			respondError(c, err)
			return
		}
		updates["is_acknowledged"] = acknowledged
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&models.Feedback{}).Where("id = ?", fb.ID).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	updated, err := resolveFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

// deleteFeedback removes a feedback record along with its thread
func deleteFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	fb, err := resolveFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideFeedback(user, *fb, services.ActionDelete, nil); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	if err := database.DB.Where("feedback_id = ?", fb.ID).Delete(&models.Comment{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment thread"})
		return
	}
	if err := database.DB.Delete(&models.Feedback{}, fb.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}

// acknowledgeFeedback runs the one-way acknowledge transition
func acknowledgeFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	fb, err := services.AcknowledgeFeedback(database.DB, user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fb.ToResponse())
}

// managerSummary returns the manager dashboard aggregates
func managerSummary(c *gin.Context) {
	user := currentUser(c)

	summary, err := services.NewAnalyticsService(database.DB).ManagerSummary(user, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// exportFeedbackPDF renders a feedback record and its comment thread as
// a downloadable PDF
func exportFeedbackPDF(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	exporter := services.NewExportService(database.DB, services.PDFRenderer{})
	document, err := exporter.ExportFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="feedback_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", document)
}
