// Package report generates the post-interview evaluation report from
// the persisted transcript using an LLM.
package report

import (
	"errors"
	"fmt"
)

// Sentinel errors separating caller mistakes from upstream failures.
var (
	// ErrNoTranscript means there is nothing to evaluate yet.
	ErrNoTranscript = errors.New("report: no interview transcript")
	// ErrMalformed means the model returned something that is not a
	// valid report.
	ErrMalformed = errors.New("report: malformed model response")
)

// CategoryNames are the four evaluation axes, in report order.
var CategoryNames = []string{
	"Technical Knowledge",
	"Problem Solving",
	"Communication",
	"Experience",
}

// Recommendation values the model may assign.
const (
	RecommendStrong       = "Strongly Recommended"
	RecommendNextRound    = "Recommended for next round"
	RecommendReservations = "Consider with reservations"
	RecommendNo           = "Not recommended"
)

var recommendations = map[string]bool{
	RecommendStrong:       true,
	RecommendNextRound:    true,
	RecommendReservations: true,
	RecommendNo:           true,
}

// Question is one evaluated exchange from the interview.
type Question struct {
	Question string `json:"question"`
	Rating   int    `json:"rating"` // 1-5
	Notes    string `json:"notes"`
}

// Category scores one evaluation axis.
type Category struct {
	Name     string `json:"name"`
	Score    int    `json:"score"` // 0-100
	Feedback string `json:"feedback"`
}

// Report is the full interview evaluation.
type Report struct {
	CandidateName        string     `json:"candidateName"`
	Position             string     `json:"position"`
	OverallScore         int        `json:"overallScore"` // 0-100
	InterviewDate        string     `json:"interviewDate"`
	Duration             string     `json:"duration"`
	Interviewer          string     `json:"interviewer"`
	Summary              string     `json:"summary"`
	Categories           []Category `json:"categories"` // exactly the four fixed axes
	Questions            []Question `json:"questions"`  // 3 to 5 entries
	Strengths            []string   `json:"strengths"`
	AreasToImprove       []string   `json:"areasToImprove"`
	RecommendationStatus string     `json:"recommendationStatus"`
}

// Validate checks the structural contract the frontend depends on:
// the four fixed categories in order, 3 to 5 rated questions, bounded
// scores and a known recommendation value.
func (r *Report) Validate() error {
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return fmt.Errorf("overallScore %d out of range", r.OverallScore)
	}
	if len(r.Categories) != len(CategoryNames) {
		return fmt.Errorf("expected %d categories, got %d", len(CategoryNames), len(r.Categories))
	}
	for i, c := range r.Categories {
		if c.Name != CategoryNames[i] {
			return fmt.Errorf("category %d: expected %q, got %q", i, CategoryNames[i], c.Name)
		}
		if c.Score < 0 || c.Score > 100 {
			return fmt.Errorf("category %q: score %d out of range", c.Name, c.Score)
		}
	}
	if len(r.Questions) < 3 || len(r.Questions) > 5 {
		return fmt.Errorf("expected 3 to 5 questions, got %d", len(r.Questions))
	}
	for i, q := range r.Questions {
		if q.Rating < 1 || q.Rating > 5 {
			return fmt.Errorf("question %d: rating %d out of range", i, q.Rating)
		}
	}
	if !recommendations[r.RecommendationStatus] {
		return fmt.Errorf("unknown recommendationStatus %q", r.RecommendationStatus)
	}
	return nil
}
