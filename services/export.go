package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"growthflow-server/models"
	"growthflow-server/types"
)

// FeedbackExport is the payload handed to the document renderer: one
// feedback record plus its chronological comment thread.
type FeedbackExport struct {
	Feedback models.Feedback
	Comments []models.Comment
}

// Renderer turns an export payload into a finished document.
type Renderer interface {
	Render(export *FeedbackExport) ([]byte, error)
}

// ExportService assembles feedback records for document rendering
type ExportService struct {
	db       *gorm.DB
	renderer Renderer
}

// NewExportService creates a new export service. A nil renderer is
// tolerated until an export is attempted.
func NewExportService(db *gorm.DB, renderer Renderer) *ExportService {
	return &ExportService{db: db, renderer: renderer}
}

// ExportFeedback resolves the feedback through the caller's visibility
// set, assembles the comment thread and renders the document.
func (s *ExportService) ExportFeedback(u models.User, id uint) ([]byte, error) {
	if s.renderer == nil {
		return nil, &types.DependencyError{Dependency: "document renderer"}
	}

	var fb models.Feedback
	err := VisibleFeedback(s.db, u).
		Preload("Manager").Preload("Employee").
		First(&fb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "feedback"}
		}
		return nil, err
	}
	if d := DecideFeedback(u, fb, ActionRead, nil); !d.Allowed {
		return nil, d.Err()
	}

	var comments []models.Comment
	if err := s.db.Where("feedback_id = ?", fb.ID).
		Preload("Author").
		Order("created_at, id").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return s.renderer.Render(&FeedbackExport{Feedback: fb, Comments: comments})
}

// PDFRenderer renders a feedback export as a letter-format PDF.
type PDFRenderer struct{}

// Render produces the printable feedback sheet: a header block, the
// strengths and areas-to-improve sections, then the comment thread.
func (PDFRenderer) Render(export *FeedbackExport) ([]byte, error) {
	fb := export.Feedback

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(72, 72, 72)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 20, fmt.Sprintf("Performance Feedback ID: %d", fb.ID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	acknowledged := "No"
	if fb.IsAcknowledged {
		acknowledged = "Yes"
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		fmt.Sprintf("From: %s", fb.Manager.Username),
		fmt.Sprintf("To: %s", fb.Employee.Username),
		fmt.Sprintf("Date: %s", fb.CreatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Sentiment: %s", fb.Sentiment),
		fmt.Sprintf("Acknowledged: %s", acknowledged),
	} {
		pdf.CellFormat(0, 16, line, "", 1, "L", false, 0, "")
	}

	section := func(title, body string) {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 16, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 14, body, "", "L", false)
	}
	section("Strengths:", fb.Strengths)
	section("Areas to Improve:", fb.AreasToImprove)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 16, "Comments:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i := range export.Comments {
		comment := &export.Comments[i]
		line := fmt.Sprintf("- %s (%s): %s",
			comment.Author.Username,
			comment.CreatedAt.Format("2006-01-02"),
			comment.Content)
		pdf.MultiCell(0, 14, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
