package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedReport(t *testing.T) {
	assert.NoError(t, validReport().Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Report)
	}{
		{"score above 100", func(r *Report) { r.OverallScore = 101 }},
		{"negative score", func(r *Report) { r.OverallScore = -1 }},
		{"missing category", func(r *Report) { r.Categories = r.Categories[:3] }},
		{"wrong category name", func(r *Report) { r.Categories[0].Name = "Vibes" }},
		{"categories out of order", func(r *Report) {
			r.Categories[0], r.Categories[1] = r.Categories[1], r.Categories[0]
		}},
		{"category score out of range", func(r *Report) { r.Categories[1].Score = 101 }},
		{"too few questions", func(r *Report) { r.Questions = r.Questions[:2] }},
		{"too many questions", func(r *Report) {
			q := r.Questions[0]
			r.Questions = append(r.Questions, q, q, q)
		}},
		{"rating zero", func(r *Report) { r.Questions[0].Rating = 0 }},
		{"rating six", func(r *Report) { r.Questions[0].Rating = 6 }},
		{"unknown recommendation", func(r *Report) { r.RecommendationStatus = "Maybe" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := validReport()
			tc.mutate(rep)
			assert.Error(t, rep.Validate())
		})
	}
}
