package models

import (
	"time"

	"gorm.io/gorm"
)

// Known sentiment categories. Sentiment itself stays free text; these
// are the values the manager dashboard breaks out.
const (
	SentimentPositive         = "Positive"
	SentimentNeutral          = "Neutral"
	SentimentNeedsImprovement = "Needs Improvement"
)

// Feedback is a structured review a manager gives to an employee. The
// manager is fixed at creation to the authenticated creator and never
// taken from the request body.
type Feedback struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ManagerID      uint      `json:"manager" gorm:"not null;index"`
	Manager        User      `json:"-" gorm:"foreignKey:ManagerID"`
	EmployeeID     uint      `json:"employee" gorm:"not null;index"`
	Employee       User      `json:"-" gorm:"foreignKey:EmployeeID"`
	Strengths      string    `json:"strengths" gorm:"type:text;not null"`
	AreasToImprove string    `json:"areas_to_improve" gorm:"type:text;not null"`
	Sentiment      string    `json:"sentiment" gorm:"size:50"`
	IsAcknowledged bool      `json:"is_acknowledged" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Comments []Comment `json:"-" gorm:"foreignKey:FeedbackID"`
}

// TableName specifies the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedback"
}

// BeforeCreate is a GORM hook that enforces the role invariants on both
// reference fields
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if err := validateManagerRef(tx, f.ManagerID); err != nil {
		return err
	}
	return validateEmployeeRef(tx, f.EmployeeID)
}

// FeedbackCreate represents the request structure for creating feedback
type FeedbackCreate struct {
	Employee       uint   `json:"employee" binding:"required"`
	Strengths      string `json:"strengths" binding:"required"`
	AreasToImprove string `json:"areas_to_improve" binding:"required"`
	Sentiment      string `json:"sentiment"`
}

// FeedbackUpdate represents the full-update request structure
type FeedbackUpdate struct {
	Employee       uint   `json:"employee" binding:"required"`
	Strengths      string `json:"strengths" binding:"required"`
	AreasToImprove string `json:"areas_to_improve" binding:"required"`
	Sentiment      string `json:"sentiment"`
}

// FeedbackResponse represents the response structure for feedback data
type FeedbackResponse struct {
	ID               uint              `json:"id"`
	Manager          uint              `json:"manager"`
	ManagerUsername  string            `json:"manager_username"`
	Employee         uint              `json:"employee"`
	EmployeeUsername string            `json:"employee_username"`
	Strengths        string            `json:"strengths"`
	AreasToImprove   string            `json:"areas_to_improve"`
	Sentiment        string            `json:"sentiment"`
	IsAcknowledged   bool              `json:"is_acknowledged"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Comments         []CommentResponse `json:"comments"`
}

// ToResponse builds the API representation. Manager, Employee and the
// comment thread must be preloaded.
func (f *Feedback) ToResponse() FeedbackResponse {
	comments := make([]CommentResponse, 0, len(f.Comments))
	for i := range f.Comments {
		comments = append(comments, f.Comments[i].ToResponse())
	}
	return FeedbackResponse{
		ID:               f.ID,
		Manager:          f.ManagerID,
		ManagerUsername:  f.Manager.Username,
		Employee:         f.EmployeeID,
		EmployeeUsername: f.Employee.Username,
		Strengths:        f.Strengths,
		AreasToImprove:   f.AreasToImprove,
		Sentiment:        f.Sentiment,
		IsAcknowledged:   f.IsAcknowledged,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
		Comments:         comments,
	}
}
