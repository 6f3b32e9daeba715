package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedbackRequest is an employee's ask for feedback, optionally directed
// at a specific manager. Fulfillment is a one-way boolean; the fulfilling
// feedback record is not linked automatically.
type FeedbackRequest struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	RequesterID     uint      `json:"requester" gorm:"not null;index"`
	Requester       User      `json:"-" gorm:"foreignKey:RequesterID"`
	TargetManagerID *uint     `json:"target_manager" gorm:"index"`
	TargetManager   *User     `json:"-" gorm:"foreignKey:TargetManagerID"`
	Reason          string    `json:"reason" gorm:"type:text;not null"`
	IsFulfilled     bool      `json:"is_fulfilled" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the FeedbackRequest model
func (FeedbackRequest) TableName() string {
	return "feedback_requests"
}

// BeforeCreate is a GORM hook that enforces the role invariants on both
// reference fields
func (r *FeedbackRequest) BeforeCreate(tx *gorm.DB) error {
	if err := validateEmployeeRef(tx, r.RequesterID); err != nil {
		return err
	}
	if r.TargetManagerID != nil {
		return validateManagerRef(tx, *r.TargetManagerID)
	}
	return nil
}

// FeedbackRequestCreate represents the request structure for creating a
// feedback request
type FeedbackRequestCreate struct {
	TargetManager *uint  `json:"target_manager"`
	Reason        string `json:"reason" binding:"required"`
}

// FeedbackRequestResponse represents the response structure for feedback
// request data
type FeedbackRequestResponse struct {
	ID                    uint      `json:"id"`
	Requester             uint      `json:"requester"`
	RequesterUsername     string    `json:"requester_username"`
	TargetManager         *uint     `json:"target_manager"`
	TargetManagerUsername string    `json:"target_manager_username"`
	Reason                string    `json:"reason"`
	IsFulfilled           bool      `json:"is_fulfilled"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ToResponse builds the API representation. Requester and TargetManager
// must be preloaded.
func (r *FeedbackRequest) ToResponse() FeedbackRequestResponse {
	resp := FeedbackRequestResponse{
		ID:                r.ID,
		Requester:         r.RequesterID,
		RequesterUsername: r.Requester.Username,
		TargetManager:     r.TargetManagerID,
		Reason:            r.Reason,
		IsFulfilled:       r.IsFulfilled,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.TargetManager != nil {
		resp.TargetManagerUsername = r.TargetManager.Username
	}
	return resp
}
