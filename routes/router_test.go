package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"growthflow-server/database"
	"growthflow-server/models"
)

// newTestRouter wires the protected API against an in-memory database.
// The auth middleware is replaced with one that trusts the X-Test-User
// header, so tests exercise the handlers and the engine underneath
// without minting tokens.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Feedback{},
		&models.Comment{},
		&models.FeedbackRequest{},
		&models.PeerFeedback{},
		&models.RefreshToken{},
	))
	database.DB = db

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		var user models.User
		if id := c.GetHeader("X-Test-User"); id != "" {
			if err := db.Where("username = ?", id).First(&user).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown test user"})
				return
			}
		}
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	})
	RegisterUserRoutes(api)
	RegisterFeedbackRoutes(api)
	RegisterCommentRoutes(api)
	RegisterFeedbackRequestRoutes(api)
	RegisterPeerFeedbackRoutes(api)
	return router, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole, managerID *uint, super bool) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		ManagerID:    managerID,
		IsSuperuser:  super,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func doJSON(t *testing.T, router *gin.Engine, method, path, asUser string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User", asUser)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), dest),
		fmt.Sprintf("body: %s", recorder.Body.String()))
}
