package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the user config at a temp dir and clears the env override.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDir = old })
	t.Setenv(envAPIURL, "")
	return dir
}

func TestNewAPIClientWithCmd_Cascade(t *testing.T) {
	isolateConfig(t)

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, api.baseURL)

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://config:9000"}))
	api, err = NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://config:9000", api.baseURL)

	t.Setenv(envAPIURL, "http://env:9000/")
	api, err = NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", api.baseURL)

	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--api-url", "http://flag:9000"}))
	api, err = NewAPIClientWithCmd(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:9000", api.baseURL)
}

func TestAPIClient_PostDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "oi", body["content"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"olá"}`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)
	var out struct {
		Response string `json:"response"`
	}
	err := api.Post(context.Background(), "/chat", map[string]string{"content": "oi"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "olá", out.Response)
}

func TestAPIClient_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"content is required"}`))
	}))
	defer server.Close()

	err := NewAPIClientWithConfig(server.URL).Get(context.Background(), "/chat/history", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "content is required", apiErr.Message)
	assert.Equal(t, "API error (400): content is required", apiErr.Error())
}

func TestAPIClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewAPIClientWithConfig(server.URL).Delete(context.Background(), "/chat/history", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestAPIClient_InvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out map[string]any
	err := NewAPIClientWithConfig(server.URL).Get(context.Background(), "/health", &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}
