package judge0

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codearena.net/internal/adapter/logging"
	"gitlab.com/codearena.net/internal/config"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/static/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.ExecutorCfg{
		BaseURL:        srv.URL + "/",
		APIKey:         "key",
		APIHost:        "judge0.example",
		AuthToken:      "secret",
		RequestTimeout: 2 * time.Second,
	}
	return NewClient(cfg, logging.NewNopLogger())
}

func strPtr(s string) *string { return &s }

func TestSubmitBatch(t *testing.T) {
	var got batchSubmitRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submissions/batch", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "false", r.URL.Query().Get("wait"))
		assert.Equal(t, "key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "judge0.example", r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"token":"t1"},{"token":"t2"}]`))
	})

	tokens, err := client.SubmitBatch(context.Background(), []domain.ExecutionRequest{
		{SourceCode: "print(3)", LanguageID: 71, Stdin: "1 2", ExpectedOutput: strPtr("3")},
		{SourceCode: "print(3)", LanguageID: 71, Stdin: "0 0", ExpectedOutput: strPtr("0")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, tokens)

	require.Len(t, got.Submissions, 2)
	assert.Equal(t, 71, got.Submissions[0].LanguageID)
	assert.Equal(t, "1 2", got.Submissions[0].Stdin)
	require.NotNil(t, got.Submissions[1].ExpectedOutput)
	assert.Equal(t, "0", *got.Submissions[1].ExpectedOutput)
}

func TestSubmitBatchSendsEmptyExpectedOutput(t *testing.T) {
	var raw map[string][]map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`[{"token":"t1"}]`))
	})

	_, err := client.SubmitBatch(context.Background(), []domain.ExecutionRequest{
		{SourceCode: "x", LanguageID: 63, Stdin: "0", ExpectedOutput: strPtr("")},
	})
	require.NoError(t, err)
	expected, present := raw["submissions"][0]["expected_output"]
	require.True(t, present)
	assert.Equal(t, "", expected)
}

func TestSubmitBatchOmitsUncheckedExpectedOutput(t *testing.T) {
	var raw map[string][]map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`[{"token":"t1"}]`))
	})

	_, err := client.SubmitBatch(context.Background(), []domain.ExecutionRequest{
		{SourceCode: "x", LanguageID: 63, Stdin: "in"},
	})
	require.NoError(t, err)
	_, present := raw["submissions"][0]["expected_output"]
	assert.False(t, present)
}

func TestSubmitBatchPerItemErrorYieldsEmptyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"token":"t1"},{"language_id":["is not included in the list"]}]`))
	})

	tokens, err := client.SubmitBatch(context.Background(), make([]domain.ExecutionRequest, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", ""}, tokens)
}

func TestSubmitBatchRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"quota exceeded"}`))
	})

	_, err := client.SubmitBatch(context.Background(), make([]domain.ExecutionRequest, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGetBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "t1,t2,t3", r.URL.Query().Get("tokens"))
		assert.True(t, strings.Contains(r.URL.Query().Get("fields"), "compile_output"))
		_, _ = w.Write([]byte(`{"submissions":[
			{"token":"t1","status_id":3,"time":"0.012","memory":3120,"stdout":"3\n"},
			{"token":"t2","status":{"id":4,"description":"Wrong Answer"},"time":null,"memory":null,"stdout":"5"},
			{"token":"t3","status":{"id":6,"description":"Compilation Error"},"compile_output":"main.c:1: error"}
		]}`))
	})

	results, err := client.GetBatch(context.Background(), []string{"t1", "t2", "t3"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "t1", results[0].Token)
	assert.Equal(t, 3, results[0].StatusID)
	assert.InDelta(t, 0.012, results[0].Time, 1e-9)
	assert.Equal(t, int64(3120), results[0].Memory)
	assert.Equal(t, "3\n", results[0].Stdout)

	assert.Equal(t, 4, results[1].StatusID)
	assert.Zero(t, results[1].Time)
	assert.Zero(t, results[1].Memory)

	assert.Equal(t, 6, results[2].StatusID)
	assert.Equal(t, "main.c:1: error", results[2].CompileOutput)
}

func TestGetBatchMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `<html>`,
		"no array":       `{"error":"nope"}`,
		"null entry":     `{"submissions":[null]}`,
		"missing status": `{"submissions":[{"token":"t1"}]}`,
		"bad time":       `{"submissions":[{"token":"t1","status_id":3,"time":"fast"}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.GetBatch(context.Background(), []string{"t1"})
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrPollMalformed)
		})
	}
}

func TestGetBatchTransportErrorIsNotMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetBatch(context.Background(), []string{"t1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrPollMalformed)
}
