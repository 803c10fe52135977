package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DekyCS/bagelhacks/internal/report"
	"github.com/DekyCS/bagelhacks/internal/session"
	"github.com/DekyCS/bagelhacks/internal/store"
)

// fakeModel serves the chat completions endpoint with a fixed
// assistant message.
func fakeModel(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			io.WriteString(w, `{"error": {"message": "unavailable"}}`)
			return
		}
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func modelReportJSON(t *testing.T) string {
	t.Helper()
	rep := report.Report{
		CandidateName:        "Alice",
		Position:             "Software Engineer",
		OverallScore:         75,
		Summary:              "ok",
		RecommendationStatus: report.RecommendNextRound,
	}
	for _, name := range report.CategoryNames {
		rep.Categories = append(rep.Categories, report.Category{
			Name: name, Score: 75, Feedback: "solid",
		})
	}
	rep.Questions = []report.Question{
		{Question: "q1", Rating: 4}, {Question: "q2", Rating: 3}, {Question: "q3", Rating: 4},
	}
	body, err := json.Marshal(rep)
	require.NoError(t, err)
	return string(body)
}

func testServer(t *testing.T, model *httptest.Server, seedTranscript bool) *Server {
	t.Helper()

	kv, err := store.OpenKV(t.TempDir())
	require.NoError(t, err)
	hist, err := store.NewHistory(kv)
	require.NoError(t, err)
	if seedTranscript {
		require.NoError(t, hist.Upsert("m1", store.RoleAgent, "Tell me about yourself."))
		require.NoError(t, hist.Upsert("m2", store.RoleUser, "I build backend services."))
	}

	gen, err := report.NewGenerator("test-key", "gpt-4o", zerolog.Nop(),
		report.WithBaseURL(model.URL), report.WithMaxRetries(0))
	require.NoError(t, err)

	tokens := session.NewTokenService("ws://localhost:7880", "key", "secret", time.Hour, zerolog.Nop())

	return New(Options{
		Tokens:  tokens,
		Reports: gen,
		History: hist,
		KV:      kv,
	}, zerolog.Nop())
}

func TestHealthz(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusOK, "{}"), false)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetToken(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusOK, "{}"), false)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/getToken?name=Alice", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok session.Token
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	assert.Equal(t, "Alice", tok.Participant)
	assert.True(t, strings.HasPrefix(tok.RoomName, "room-"))
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "ws://localhost:7880", tok.ServerURL)
}

func TestReportHappyPath(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusOK, modelReportJSON(t)), true)

	req := httptest.NewRequest(http.MethodPost, "/report",
		strings.NewReader(`{"candidateName":"Alice","position":"Software Engineer"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, "Alice", rep.CandidateName)
	assert.Len(t, rep.Categories, 4)
}

func TestReportWithoutTranscript(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusOK, modelReportJSON(t)), false)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodPost, "/report", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReportMalformedModelOutput(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusOK, "not json"), true)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodPost, "/report", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReportUpstreamFailure(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusServiceUnavailable, ""), true)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodPost, "/report", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestReportBadRequestBody(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusOK, modelReportJSON(t)), true)

	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetReportsSwapsGenerator(t *testing.T) {
	s := testServer(t, fakeModel(t, http.StatusServiceUnavailable, ""), true)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodPost, "/report", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// Point the server at a healthy backend, as a config reload does.
	good := fakeModel(t, http.StatusOK, modelReportJSON(t))
	gen, err := report.NewGenerator("test-key", "gpt-4o", zerolog.Nop(),
		report.WithBaseURL(good.URL), report.WithMaxRetries(0))
	require.NoError(t, err)
	s.SetReports(gen)

	resp, err = s.App().Test(httptest.NewRequest(http.MethodPost, "/report", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
