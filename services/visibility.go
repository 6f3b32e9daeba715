package services

import (
	"gorm.io/gorm"

	"growthflow-server/models"
)

// Visibility scoping. Every list and every object lookup resolves
// through one of these functions, so a row outside a principal's
// visibility set surfaces as not found rather than forbidden. Each
// function is the single source of truth for who sees what in its
// entity's collection; an unrecognized role yields the empty set.

// VisibleUsers scopes the user collection: superusers see everyone,
// managers see themselves and their direct reports, employees see only
// themselves.
func VisibleUsers(db *gorm.DB, u models.User) *gorm.DB {
	q := db.Model(&models.User{}).Order("username")
	switch {
	case u.IsSuperuser:
		return q
	case u.IsManager():
		return q.Where("id = ? OR manager_id = ?", u.ID, u.ID)
	case u.IsEmployee():
		return q.Where("id = ?", u.ID)
	default:
		return q.Where("1 = 0")
	}
}

// VisibleFeedback scopes feedback: managers see what they gave plus
// everything received by their direct reports (a row matching both
// clauses appears once), employees see what they received.
func VisibleFeedback(db *gorm.DB, u models.User) *gorm.DB {
	q := db.Model(&models.Feedback{}).Order("created_at DESC, id DESC")
	switch {
	case u.IsSuperuser:
		return q
	case u.IsManager():
		reports := db.Model(&models.User{}).Select("id").Where("manager_id = ?", u.ID)
		return q.Where("manager_id = ? OR employee_id IN (?)", u.ID, reports)
	case u.IsEmployee():
		return q.Where("employee_id = ?", u.ID)
	default:
		return q.Where("1 = 0")
	}
}

// VisibleComments scopes the comment collection. With a feedback id the
// whole thread is readable regardless of author; without one, callers
// fall back to their own comments (superusers see all). Managers get no
// wider default on purpose; threads are reached through the feedback id.
func VisibleComments(db *gorm.DB, u models.User, feedbackID *uint) *gorm.DB {
	q := db.Model(&models.Comment{}).Order("created_at, id")
	if feedbackID != nil {
		return q.Where("feedback_id = ?", *feedbackID)
	}
	if u.IsSuperuser {
		return q
	}
	return q.Where("author_id = ?", u.ID)
}

// VisibleFeedbackRequests scopes feedback requests: managers see
// requests targeted at them plus requests from their direct reports,
// employees see their own. An unassigned request from an employee with
// no manager link is visible to superusers only.
func VisibleFeedbackRequests(db *gorm.DB, u models.User) *gorm.DB {
	q := db.Model(&models.FeedbackRequest{}).Order("created_at DESC, id DESC")
	switch {
	case u.IsSuperuser:
		return q
	case u.IsManager():
		reports := db.Model(&models.User{}).Select("id").Where("manager_id = ?", u.ID)
		return q.Where("target_manager_id = ? OR requester_id IN (?)", u.ID, reports)
	case u.IsEmployee():
		return q.Where("requester_id = ?", u.ID)
	default:
		return q.Where("1 = 0")
	}
}

// VisiblePeerFeedback scopes peer feedback: everyone sees entries they
// gave or received; managers additionally see entries where either side
// reports to them.
func VisiblePeerFeedback(db *gorm.DB, u models.User) *gorm.DB {
	q := db.Model(&models.PeerFeedback{}).Order("created_at DESC, id DESC")
	switch {
	case u.IsSuperuser:
		return q
	case u.IsManager():
		receiverReports := db.Model(&models.User{}).Select("id").Where("manager_id = ?", u.ID)
		giverReports := db.Model(&models.User{}).Select("id").Where("manager_id = ?", u.ID)
		return q.Where(
			"giver_id = ? OR receiver_id = ? OR receiver_id IN (?) OR giver_id IN (?)",
			u.ID, u.ID, receiverReports, giverReports,
		)
	case u.IsEmployee():
		return q.Where("giver_id = ? OR receiver_id = ?", u.ID, u.ID)
	default:
		return q.Where("1 = 0")
	}
}
