package models

import "time"

// Comment is a threaded note attached to a feedback record. The author
// is fixed at creation; threads read oldest-first.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FeedbackID uint      `json:"feedback" gorm:"not null;index"`
	Feedback   Feedback  `json:"-" gorm:"foreignKey:FeedbackID"`
	AuthorID   uint      `json:"author" gorm:"not null;index"`
	Author     User      `json:"-" gorm:"foreignKey:AuthorID"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsMarkdown bool      `json:"is_markdown" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// CommentCreate represents the request structure for creating a comment
type CommentCreate struct {
	Feedback   uint   `json:"feedback" binding:"required"`
	Content    string `json:"content" binding:"required"`
	IsMarkdown bool   `json:"is_markdown"`
}

// CommentUpdate represents the update request structure
type CommentUpdate struct {
	Content    *string `json:"content"`
	IsMarkdown *bool   `json:"is_markdown"`
}

// CommentResponse represents the response structure for comment data
type CommentResponse struct {
	ID             uint      `json:"id"`
	Feedback       uint      `json:"feedback"`
	Author         uint      `json:"author"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	IsMarkdown     bool      `json:"is_markdown"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse builds the API representation. Author must be preloaded.
func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:             c.ID,
		Feedback:       c.FeedbackID,
		Author:         c.AuthorID,
		AuthorUsername: c.Author.Username,
		Content:        c.Content,
		IsMarkdown:     c.IsMarkdown,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
