package models

import (
	"time"

	"gorm.io/gorm"

	"growthflow-server/types"
)

// AnonymousGiver is the sentinel rendered in place of the giver's
// identity when a peer feedback entry is anonymous.
const AnonymousGiver = "Anonymous"

// PeerFeedback is optional feedback exchanged between peers. The giver
// is fixed at creation; when IsAnonymous is set, the giver's identity is
// suppressed for every reader except the giver themself and superusers.
type PeerFeedback struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	GiverID      uint      `json:"-" gorm:"not null;index"`
	Giver        User      `json:"-" gorm:"foreignKey:GiverID"`
	ReceiverID   uint      `json:"receiver" gorm:"not null;index"`
	Receiver     User      `json:"-" gorm:"foreignKey:ReceiverID"`
	FeedbackText string    `json:"feedback_text" gorm:"type:text;not null"`
	IsAnonymous  bool      `json:"is_anonymous" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the PeerFeedback model
func (PeerFeedback) TableName() string {
	return "peer_feedback"
}

// BeforeCreate is a GORM hook that rejects self-feedback
func (p *PeerFeedback) BeforeCreate(tx *gorm.DB) error {
	if p.GiverID == p.ReceiverID {
		return &types.ValidationError{Message: "you cannot give peer feedback to yourself"}
	}
	return nil
}

// PeerFeedbackCreate represents the request structure for creating peer
// feedback
type PeerFeedbackCreate struct {
	Receiver     uint   `json:"receiver" binding:"required"`
	FeedbackText string `json:"feedback_text" binding:"required"`
	IsAnonymous  bool   `json:"is_anonymous"`
}

// PeerFeedbackResponse represents the response structure for peer
// feedback data. Giver is omitted entirely when anonymized.
type PeerFeedbackResponse struct {
	ID               uint      `json:"id"`
	Giver            *uint     `json:"giver,omitempty"`
	GiverUsername    string    `json:"giver_username"`
	Receiver         uint      `json:"receiver"`
	ReceiverUsername string    `json:"receiver_username"`
	FeedbackText     string    `json:"feedback_text"`
	IsAnonymous      bool      `json:"is_anonymous"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToResponse builds the representation shown to viewer. Giver and
// Receiver must be preloaded. The raw giver reference stays internal
// whenever the entry is anonymous and the viewer is neither the giver
// nor a superuser.
func (p *PeerFeedback) ToResponse(viewer User) PeerFeedbackResponse {
	resp := PeerFeedbackResponse{
		ID:               p.ID,
		Receiver:         p.ReceiverID,
		ReceiverUsername: p.Receiver.Username,
		FeedbackText:     p.FeedbackText,
		IsAnonymous:      p.IsAnonymous,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.IsAnonymous && viewer.ID != p.GiverID && !viewer.IsSuperuser {
		resp.GiverUsername = AnonymousGiver
		return resp
	}
	giverID := p.GiverID
	resp.Giver = &giverID
	resp.GiverUsername = p.Giver.Username
	return resp
}
