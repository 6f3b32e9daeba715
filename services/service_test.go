package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"growthflow-server/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.UserRole, managerID *uint) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		ManagerID:    managerID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createSuperuser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleManager,
		IsSuperuser:  true,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createFeedback(t *testing.T, db *gorm.DB, manager, employee models.User, sentiment string) models.Feedback {
	t.Helper()
	fb := models.Feedback{
		ManagerID:      manager.ID,
		EmployeeID:     employee.ID,
		Strengths:      "clear communication",
		AreasToImprove: "estimation",
		Sentiment:      sentiment,
	}
	require.NoError(t, db.Create(&fb).Error)
	return fb
}

func createComment(t *testing.T, db *gorm.DB, fb models.Feedback, author models.User, content string) models.Comment {
	t.Helper()
	comment := models.Comment{FeedbackID: fb.ID, AuthorID: author.ID, Content: content}
	require.NoError(t, db.Create(&comment).Error)
	return comment
}

func createRequest(t *testing.T, db *gorm.DB, requester models.User, target *uint) models.FeedbackRequest {
	t.Helper()
	req := models.FeedbackRequest{
		RequesterID:     requester.ID,
		TargetManagerID: target,
		Reason:          "project retro",
	}
	require.NoError(t, db.Create(&req).Error)
	return req
}

func createPeerFeedback(t *testing.T, db *gorm.DB, giver, receiver models.User, anonymous bool) models.PeerFeedback {
	t.Helper()
	pf := models.PeerFeedback{
		GiverID:      giver.ID,
		ReceiverID:   receiver.ID,
		FeedbackText: "great pairing session",
		IsAnonymous:  anonymous,
	}
	require.NoError(t, db.Create(&pf).Error)
	return pf
}

// org is the standard reporting tree used across tests: two managers,
// two reports under the first, one under the second, plus one employee
// with no manager link.
type org struct {
	super    models.User
	managerA models.User
	managerB models.User
	emp1     models.User
	emp2     models.User
	emp3     models.User
	loner    models.User
}

func newOrg(t *testing.T, db *gorm.DB) org {
	t.Helper()
	o := org{
		super:    createSuperuser(t, db, "root"),
		managerA: createUser(t, db, "alice", models.RoleManager, nil),
		managerB: createUser(t, db, "bob", models.RoleManager, nil),
	}
	o.emp1 = createUser(t, db, "carol", models.RoleEmployee, &o.managerA.ID)
	o.emp2 = createUser(t, db, "dave", models.RoleEmployee, &o.managerA.ID)
	o.emp3 = createUser(t, db, "erin", models.RoleEmployee, &o.managerB.ID)
	o.loner = createUser(t, db, "frank", models.RoleEmployee, nil)
	return o
}

func feedbackIDs(t *testing.T, q *gorm.DB) []uint {
	t.Helper()
	var rows []models.Feedback
	require.NoError(t, q.Find(&rows).Error)
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}
