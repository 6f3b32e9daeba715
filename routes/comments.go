package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"growthflow-server/database"
	"growthflow-server/models"
	"growthflow-server/services"
	"growthflow-server/types"
)

// RegisterCommentRoutes registers the comment thread routes
func RegisterCommentRoutes(router *gin.RouterGroup) {
	commentRoutes := router.Group("/comments")
	{
		commentRoutes.GET("", listComments)
		commentRoutes.POST("", createComment)
		commentRoutes.GET("/:id", getComment)
		commentRoutes.PUT("/:id", updateComment)
		commentRoutes.PATCH("/:id", patchComment)
		commentRoutes.DELETE("/:id", deleteComment)
	}
}

// commentFilter reads the optional ?feedback= query parameter
func commentFilter(c *gin.Context) (*uint, bool) {
	raw := c.Query("feedback")
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback filter"})
		return nil, false
	}
	id := uint(parsed)
	return &id, true
}

func resolveComment(user models.User, feedbackID *uint, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := services.VisibleComments(database.DB, user, feedbackID).
		Preload("Author").First(&comment, id).Error
	if err != nil {
		return nil, &types.NotFoundError{Resource: "comment"}
	}
	return &comment, nil
}

// listComments returns the caller's visible comments, optionally scoped
// to one feedback thread
func listComments(c *gin.Context) {
	user := currentUser(c)
	feedbackID, ok := commentFilter(c)
	if !ok {
		return
	}

	var items []models.Comment
	err := services.VisibleComments(database.DB, user, feedbackID).
		Preload("Author").Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	responses := make([]models.CommentResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// createComment adds a comment to an existing feedback thread. The
// author is forced to the authenticated caller.
func createComment(c *gin.Context) {
	user := currentUser(c)

	var req models.CommentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	var fb models.Feedback
	if err := database.DB.First(&fb, req.Feedback).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, &types.ValidationError{Message: "feedback thread does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify feedback thread"})
		return
	}

	comment := models.Comment{
		FeedbackID: req.Feedback,
		AuthorID:   user.ID,
		Content:    req.Content,
		IsMarkdown: req.IsMarkdown,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		respondError(c, err)
		return
	}

	var created models.Comment
	if err := database.DB.Preload("Author").First(&created, comment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Comment created but failed to load details"})
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func getComment(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	feedbackID, ok := commentFilter(c)
	if !ok {
		return
	}

	comment, err := resolveComment(user, feedbackID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideComment(user, *comment, services.ActionRead); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	c.JSON(http.StatusOK, comment.ToResponse())
}

// updateComment replaces the comment body. Author only.
func updateComment(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	feedbackID, ok := commentFilter(c)
	if !ok {
		return
	}

	comment, err := resolveComment(user, feedbackID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideComment(user, *comment, services.ActionUpdate); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	var req models.CommentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}
	if req.Content == nil || *req.Content == "" {
		respondError(c, &types.ValidationError{Message: "content is required"})
		return
	}

	updates := map[string]interface{}{"content": *req.Content}
	if req.IsMarkdown != nil {
		updates["is_markdown"] = *req.IsMarkdown
	}
	if err := database.DB.Model(comment).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}

	updated, err := resolveComment(user, feedbackID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

// patchComment applies a partial update. Author only.
func patchComment(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	feedbackID, ok := commentFilter(c)
	if !ok {
		return
	}

	comment, err := resolveComment(user, feedbackID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideComment(user, *comment, services.ActionPatch); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	patch, err := bindPatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if raw, present := patch["content"]; present {
		var content string
		if err := unmarshalField(raw, &content); err != nil {
			respondError(c, err)
			return
		}
		if content == "" {
			respondError(c, &types.ValidationError{Message: "content is required"})
			return
		}
		updates["content"] = content
	}
	if raw, present := patch["is_markdown"]; present {
		var markdown bool
		if err := unmarshalField(raw, &markdown); err != nil {
			respondError(c, err)
			return
		}
		updates["is_markdown"] = markdown
	}

	if len(updates) > 0 {
		if err := database.DB.Model(comment).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	updated, err := resolveComment(user, feedbackID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

func deleteComment(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	feedbackID, ok := commentFilter(c)
	if !ok {
		return
	}

	comment, err := resolveComment(user, feedbackID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecideComment(user, *comment, services.ActionDelete); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	if err := database.DB.Delete(&models.Comment{}, comment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
