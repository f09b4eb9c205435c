package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lang_portal/export"
	"lang_portal/generator"
	"lang_portal/portal"
	"lang_portal/server"
)

type fakeLLM struct {
	mu      sync.Mutex
	out     string
	err     error
	prompts []generator.Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p generator.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	return f.out, f.err
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestServer(t *testing.T, llm generator.LLMClient, opts ...generator.Option) http.Handler {
	t.Helper()
	gen, err := generator.New(llm, opts...)
	require.NoError(t, err)
	p, err := portal.New()
	require.NoError(t, err)
	srv, err := server.New(gen, p, server.Options{HistorySize: 10, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return srv.Handler()
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postCategory(h http.Handler, category string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(generator.Request{Category: category})
	return do(h, http.MethodPost, "/api/generate-vocabulary", "application/json", string(body))
}

func TestNew_Validation(t *testing.T) {
	p, err := portal.New()
	require.NoError(t, err)

	_, err = server.New(nil, p, server.Options{})
	assert.Error(t, err)

	gen, _ := generator.New(generator.MockLLM{})
	_, err = server.New(gen, nil, server.Options{})
	assert.Error(t, err)
}

func TestGenerate_FoodReturnsModelArrayUnchanged(t *testing.T) {
	llm := &fakeLLM{out: generator.SampleVocabulary}
	h := newTestServer(t, llm)

	rec := postCategory(h, "food")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, generator.SampleVocabulary, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Generation-Id"))

	require.Equal(t, 1, llm.calls())
	assert.Contains(t, llm.prompts[0].User, `"food"`)
}

func TestGenerate_NetworkErrorIs500(t *testing.T) {
	llm := &fakeLLM{err: errors.New("dial tcp: connection refused")}
	h := newTestServer(t, llm)

	rec := postCategory(h, "food")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to generate vocabulary"}`, rec.Body.String())
	assert.Equal(t, 1, llm.calls())
}

func TestGenerate_NotJSONIsSameFailure(t *testing.T) {
	network := postCategory(newTestServer(t, &fakeLLM{err: errors.New("boom")}), "food")
	parse := postCategory(newTestServer(t, &fakeLLM{out: "not json"}), "food")

	assert.Equal(t, http.StatusInternalServerError, parse.Code)
	assert.Equal(t, network.Code, parse.Code)
	assert.JSONEq(t, network.Body.String(), parse.Body.String())
	assert.Empty(t, parse.Header().Get("X-Generation-Id"))
}

func TestGenerate_FencedReplyIsSameFailure(t *testing.T) {
	fenced := "```json\n" + generator.SampleVocabulary + "\n```"
	h := newTestServer(t, &fakeLLM{out: fenced})

	rec := postCategory(h, "food")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to generate vocabulary"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Generation-Id"))
}

func TestGenerate_FencedReplyWithStripFence(t *testing.T) {
	fenced := "```json\n" + generator.SampleVocabulary + "\n```"
	h := newTestServer(t, &fakeLLM{out: fenced}, generator.WithStripFence(true))

	rec := postCategory(h, "food")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, generator.SampleVocabulary, rec.Body.String())
}

func TestGenerate_StrictShapeFailureIsSameFailure(t *testing.T) {
	h := newTestServer(t, &fakeLLM{out: `[{"kanji":"猫"}]`}, generator.WithValidation(generator.ValidationStrict))

	rec := postCategory(h, "animals")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to generate vocabulary"}`, rec.Body.String())
}

func TestGenerate_EmptyCategoryIsAccepted(t *testing.T) {
	llm := &fakeLLM{out: `[]`}
	h := newTestServer(t, llm)

	rec := postCategory(h, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[]`, rec.Body.String())
	assert.Contains(t, llm.prompts[0].User, `category ""`)
}

func TestGenerate_InvalidBody(t *testing.T) {
	llm := &fakeLLM{out: `[]`}
	h := newTestServer(t, llm)

	for _, body := range []string{"", "{", `{"category": 5}`} {
		rec := do(h, http.MethodPost, "/api/generate-vocabulary", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
	}
	assert.Equal(t, 0, llm.calls())
}

func TestDownload_VocabularyJSON(t *testing.T) {
	h := newTestServer(t, &fakeLLM{out: generator.SampleVocabulary})

	gen := postCategory(h, "food")
	require.Equal(t, http.StatusOK, gen.Code)
	id := gen.Header().Get("X-Generation-Id")

	rec := do(h, http.MethodGet, "/api/generations/"+id+"/vocabulary.json", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="vocabulary.json"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	want, err := export.PrettyJSON(json.RawMessage(generator.SampleVocabulary))
	require.NoError(t, err)
	assert.Equal(t, string(want), rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), "[\n  {\n    \"kanji\": \"勉強\""))
}

func TestGetGeneration(t *testing.T) {
	h := newTestServer(t, &fakeLLM{out: generator.SampleVocabulary})
	id := postCategory(h, "food").Header().Get("X-Generation-Id")

	rec := do(h, http.MethodGet, "/api/generations/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got generator.Generation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "food", got.Category)
	assert.JSONEq(t, generator.SampleVocabulary, string(got.Items))
}

func TestGeneration_NotFound(t *testing.T) {
	h := newTestServer(t, &fakeLLM{})

	for _, target := range []string{"/api/generations/missing", "/api/generations/missing/vocabulary.json"} {
		rec := do(h, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.JSONEq(t, `{"error":"generation not found"}`, rec.Body.String())
	}
}

func TestVocabularyPage(t *testing.T) {
	h := newTestServer(t, &fakeLLM{})

	rec := do(h, http.MethodGet, "/vocabulary", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<form id="vocabulary-form" method="post" action="/vocabulary">`)
	assert.Contains(t, body, `placeholder="Enter thematic category"`)
	assert.Contains(t, body, `<a href="/vocabulary" class="active" aria-current="page">Vocabulary Generator</a>`)
	assert.Contains(t, body, `/static/vocabulary.js`)
}

func TestVocabularyForm_Success(t *testing.T) {
	llm := &fakeLLM{out: generator.SampleVocabulary}
	h := newTestServer(t, llm)

	form := url.Values{"category": {"food"}}
	rec := do(h, http.MethodPost, "/vocabulary", "application/x-www-form-urlencoded", form.Encode())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<td>shokuji</td>")
	assert.Contains(t, body, "勉 (ben) + 強 (kyou)")
	assert.Contains(t, body, `value="food"`)
	assert.Contains(t, body, `download="vocabulary.json"`)
	assert.Regexp(t, `href="/api/generations/[0-9a-f-]{36}/vocabulary.json"`, body)
	assert.Contains(t, llm.prompts[0].User, `"food"`)
}

func TestVocabularyForm_MismatchedShapeSkipsTable(t *testing.T) {
	out := `[{"kanji":"猫","romaji":"neko","english":"cat"},{"kanji":1}]`
	h := newTestServer(t, &fakeLLM{out: out})

	form := url.Values{"category": {"animals"}}
	rec := do(h, http.MethodPost, "/vocabulary", "application/x-www-form-urlencoded", form.Encode())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<td>")
	assert.Contains(t, body, "neko")
	assert.Regexp(t, `href="/api/generations/[0-9a-f-]{36}/vocabulary.json"`, body)
}

func TestVocabularyForm_FailureShowsNotice(t *testing.T) {
	h := newTestServer(t, &fakeLLM{out: "not json"})

	form := url.Values{"category": {"food"}}
	rec := do(h, http.MethodPost, "/vocabulary", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to generate vocabulary")
	assert.NotContains(t, rec.Body.String(), "<td>")
}

func TestPortal_IndexRedirects(t *testing.T) {
	rec := do(newTestServer(t, &fakeLLM{}), http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestPortal_Pages(t *testing.T) {
	h := newTestServer(t, &fakeLLM{})

	tests := []struct {
		path   string
		status int
		active string
		text   string
	}{
		{"/dashboard", http.StatusOK, "/dashboard", "Start Studying"},
		{"/study_activities", http.StatusOK, "/study_activities", "Vocabulary Quiz"},
		{"/study_activity/2", http.StatusOK, "/study_activities", "Study Activity 2"},
		{"/groups", http.StatusOK, "/groups", "Core Verbs"},
		{"/group/3", http.StatusOK, "/groups", "Group 3"},
		{"/study_sessions", http.StatusOK, "/study_sessions", "Study Sessions"},
		{"/study_session/1", http.StatusOK, "/study_sessions", "Study Session 1"},
		{"/settings", http.StatusOK, "/settings", "Settings"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(h, http.MethodGet, tt.path, "", "")
			require.Equal(t, tt.status, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.text)
			assert.Contains(t, body, `href="`+tt.active+`" class="active"`)
			assert.Equal(t, 1, strings.Count(body, `class="active"`))
			assert.Contains(t, body, "Launch Activity")
		})
	}
}

func TestPortal_NotFound(t *testing.T) {
	h := newTestServer(t, &fakeLLM{})

	for _, path := range []string{"/nope", "/group", "/group/abc", "/groups/1", "/not_found", "/a/b/c"} {
		rec := do(h, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Page not found", path)
		assert.Contains(t, rec.Body.String(), "Japanese Learning", path)
	}
}

func TestHealthzAndStatic(t *testing.T) {
	h := newTestServer(t, &fakeLLM{})

	rec := do(h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(h, http.MethodGet, "/static/vocabulary.js", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `a.download = "vocabulary.json"`)
	assert.Contains(t, rec.Body.String(), "JSON.stringify(result, null, 2)")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, &fakeLLM{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	rec = do(h, http.MethodGet, "/healthz", "", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}
