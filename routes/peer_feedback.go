package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growthflow-server/database"
	"growthflow-server/models"
	"growthflow-server/services"
	"growthflow-server/types"
)

// RegisterPeerFeedbackRoutes registers the peer feedback routes
func RegisterPeerFeedbackRoutes(router *gin.RouterGroup) {
	peerRoutes := router.Group("/peer-feedback")
	{
		peerRoutes.GET("", listPeerFeedback)
		peerRoutes.POST("", createPeerFeedback)
		peerRoutes.GET("/:id", getPeerFeedback)
		peerRoutes.PATCH("/:id", patchPeerFeedback)
		peerRoutes.DELETE("/:id", deletePeerFeedback)
	}
}

func resolvePeerFeedback(user models.User, id uint) (*models.PeerFeedback, error) {
	var pf models.PeerFeedback
	err := services.VisiblePeerFeedback(database.DB, user).
		Preload("Giver").Preload("Receiver").First(&pf, id).Error
	if err != nil {
		return nil, &types.NotFoundError{Resource: "peer feedback"}
	}
	return &pf, nil
}

func listPeerFeedback(c *gin.Context) {
	user := currentUser(c)

	var items []models.PeerFeedback
	err := services.VisiblePeerFeedback(database.DB, user).
		Preload("Giver").Preload("Receiver").Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch peer feedback"})
		return
	}

	responses := make([]models.PeerFeedbackResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse(user))
	}
	c.JSON(http.StatusOK, responses)
}

// createPeerFeedback records peer feedback. The giver is forced to the
// authenticated caller; self-feedback is rejected by the model hook.
func createPeerFeedback(c *gin.Context) {
	user := currentUser(c)
	if d := services.CanCreatePeerFeedback(user); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	var req models.PeerFeedbackCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	var receiver models.User
	if err := database.DB.First(&receiver, req.Receiver).Error; err != nil {
		respondError(c, &types.ValidationError{Message: "receiver does not exist"})
		return
	}

	pf := models.PeerFeedback{
		GiverID:      user.ID,
		ReceiverID:   req.Receiver,
		FeedbackText: req.FeedbackText,
		IsAnonymous:  req.IsAnonymous,
	}
	if err := database.DB.Create(&pf).Error; err != nil {
		respondError(c, err)
		return
	}

	var created models.PeerFeedback
	if err := database.DB.Preload("Giver").Preload("Receiver").First(&created, pf.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Peer feedback created but failed to load details"})
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse(user))
}

func getPeerFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	pf, err := resolvePeerFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecidePeerFeedback(user, *pf, services.ActionRead); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	c.JSON(http.StatusOK, pf.ToResponse(user))
}

// patchPeerFeedback applies a partial update. Giver only; the receiver
// and anonymity flag are immutable after creation.
func patchPeerFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	pf, err := resolvePeerFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecidePeerFeedback(user, *pf, services.ActionPatch); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	patch, err := bindPatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	if raw, present := patch["feedback_text"]; present {
		var text string
		if err := unmarshalField(raw, &text); err != nil {
			respondError(c, err)
			return
		}
		if text == "" {
			respondError(c, &types.ValidationError{Message: "feedback_text is required"})
			return
		}
		err := database.DB.Model(&models.PeerFeedback{}).Where("id = ?", pf.ID).
			Update("feedback_text", text).Error
		if err != nil {
			respondError(c, err)
			return
		}
	}

	updated, err := resolvePeerFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse(user))
}

func deletePeerFeedback(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	pf, err := resolvePeerFeedback(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d := services.DecidePeerFeedback(user, *pf, services.ActionDelete); !d.Allowed {
		respondError(c, d.Err())
		return
	}

	if err := database.DB.Delete(&models.PeerFeedback{}, pf.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete peer feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Peer feedback deleted successfully"})
}
