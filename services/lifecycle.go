package services

import (
	"errors"

	"gorm.io/gorm"

	"growthflow-server/models"
	"growthflow-server/types"
)

// One-way state transitions. Both flips run as compare-and-set updates
// conditioned on the flag still being false, so two concurrent calls
// produce exactly one success and one conflict.

// AcknowledgeFeedback marks feedback as read by the receiving employee.
// Acknowledging twice returns a ConflictError; feedback outside the
// caller's visibility set returns a NotFoundError.
func AcknowledgeFeedback(db *gorm.DB, u models.User, id uint) (*models.Feedback, error) {
	var fb models.Feedback
	err := VisibleFeedback(db, u).
		Preload("Manager").Preload("Employee").
		Preload("Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at, id") }).
		Preload("Comments.Author").
		First(&fb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "feedback"}
		}
		return nil, err
	}
	if d := CanAcknowledgeFeedback(u, fb); !d.Allowed {
		return nil, d.Err()
	}
	res := db.Model(&models.Feedback{}).
		Where("id = ? AND is_acknowledged = ?", fb.ID, false).
		Update("is_acknowledged", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &types.ConflictError{Message: "feedback already acknowledged"}
	}
	fb.IsAcknowledged = true
	return &fb, nil
}

// MarkRequestFulfilled marks a feedback request as answered. Only the
// assigned target manager (or a superuser) may fulfill; fulfilling twice
// returns a ConflictError.
func MarkRequestFulfilled(db *gorm.DB, u models.User, id uint) (*models.FeedbackRequest, error) {
	var req models.FeedbackRequest
	err := VisibleFeedbackRequests(db, u).
		Preload("Requester").Preload("TargetManager").
		First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "feedback request"}
		}
		return nil, err
	}
	if d := CanMarkFulfilled(u, req); !d.Allowed {
		return nil, d.Err()
	}
	res := db.Model(&models.FeedbackRequest{}).
		Where("id = ? AND is_fulfilled = ?", req.ID, false).
		Update("is_fulfilled", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &types.ConflictError{Message: "feedback request already marked as fulfilled"}
	}
	req.IsFulfilled = true
	return &req, nil
}
