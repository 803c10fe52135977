package report

import (
	"fmt"
	"strings"

	"github.com/DekyCS/bagelhacks/internal/store"
)

const systemPrompt = `You are an experienced hiring manager writing a structured evaluation of a mock technical interview.

Respond with a single JSON object and nothing else, matching exactly this shape:
{
  "candidateName": string,
  "position": string,
  "overallScore": integer 0-100,
  "interviewDate": string,
  "duration": string,
  "interviewer": string,
  "summary": string,
  "categories": [
    {"name": "Technical Knowledge", "score": integer 0-100, "feedback": string},
    {"name": "Problem Solving", "score": integer 0-100, "feedback": string},
    {"name": "Communication", "score": integer 0-100, "feedback": string},
    {"name": "Experience", "score": integer 0-100, "feedback": string}
  ],
  "questions": [{"question": string, "rating": integer 1-5, "notes": string}],
  "strengths": [string],
  "areasToImprove": [string],
  "recommendationStatus": one of "Strongly Recommended", "Recommended for next round", "Consider with reservations", "Not recommended"
}

All four categories are required, in that order. Pick the 3 to 5 most significant questions asked. Base every score, rating and note on what was actually said in the transcript.`

// buildUserPrompt renders the candidate profile and transcript for
// the model.
func buildUserPrompt(candidate store.Candidate, transcript []store.Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Candidate: %s\n", candidate.Name)
	fmt.Fprintf(&b, "Company: %s\n", candidate.Company)
	fmt.Fprintf(&b, "Position: %s\n\n", candidate.Position)
	b.WriteString("Interview transcript:\n\n")

	for _, m := range transcript {
		speaker := "Candidate"
		if m.Role == store.RoleAgent {
			speaker = "Interviewer"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Content)
	}
	return b.String()
}
