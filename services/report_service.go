package services

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// maxRetainedReports bounds the in-memory report store; the oldest report
// is dropped once the cap is reached.
const maxRetainedReports = 1000

// ReportService retains completed assessments and renders them as PDF
// summaries for download.
type ReportService struct {
	mu      sync.RWMutex
	reports map[string]*models.AssessmentResult
	order   []string
}

func NewReportService() *ReportService {
	return &ReportService{
		reports: make(map[string]*models.AssessmentResult),
	}
}

// Save retains an assessment for later export.
func (s *ReportService) Save(result *models.AssessmentResult) {
	if result == nil || result.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[result.ID]; !exists {
		s.order = append(s.order, result.ID)
		if len(s.order) > maxRetainedReports {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.reports, oldest)
		}
	}
	s.reports[result.ID] = result
}

// Get returns a retained assessment by report id.
func (s *ReportService) Get(id string) (*models.AssessmentResult, error) {
	s.mu.RLock()
	result, ok := s.reports[id]
	s.mu.RUnlock()

	if !ok {
		return nil, models.NewNotFoundError("report", id)
	}
	return result, nil
}

// Len reports how many assessments are retained.
func (s *ReportService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// RenderPDF renders the assessment as a one-page PDF summary.
func (s *ReportService) RenderPDF(result *models.AssessmentResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Health Assessment Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Health Assessment Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report %s, generated %s", result.ID, result.AssessedAt.Format("2 Jan 2006 15:04")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
	}

	section("Reported symptoms")
	if len(result.MatchedSymptoms) == 0 {
		pdf.MultiCell(0, 5, "No recognized symptoms.", "", "L", false)
	} else {
		pdf.MultiCell(0, 5, strings.Join(result.MatchedSymptoms, ", "), "", "L", false)
	}
	if result.DurationDays > 0 {
		pdf.MultiCell(0, 5, fmt.Sprintf("Duration: %d days", result.DurationDays), "", "L", false)
	}
	pdf.Ln(3)

	section("Possible conditions")
	if len(result.Candidates) == 0 {
		pdf.MultiCell(0, 5, "No matching conditions found.", "", "L", false)
	}
	for _, cand := range result.Candidates {
		pdf.MultiCell(0, 5, fmt.Sprintf("- %s (%s severity, %.0f%% symptom match)",
			cand.Name, cand.Severity, cand.Score*100), "", "L", false)
	}
	pdf.Ln(3)

	section("Urgency")
	urgency := string(result.Urgency)
	if result.EmergencyNumber != "" {
		urgency += fmt.Sprintf(" - call %s in an emergency", result.EmergencyNumber)
	}
	pdf.MultiCell(0, 5, urgency, "", "L", false)
	pdf.Ln(3)

	section("Recommendations")
	for _, rec := range result.Recommendations {
		pdf.MultiCell(0, 5, "- "+rec, "", "L", false)
	}
	pdf.Ln(3)

	section("Next steps")
	for _, step := range result.NextSteps {
		pdf.MultiCell(0, 5, "- "+step, "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, result.Disclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}
