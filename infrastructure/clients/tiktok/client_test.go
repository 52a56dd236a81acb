package tiktok

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
)

func tokenHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   7200,
		})
	}
}

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	mux.HandleFunc("/oauth/token/", tokenHandler(t))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		ClientKey:      "key",
		ClientSecret:   "secret",
		TokenURL:       srv.URL + "/oauth/token/",
		QueryURL:       srv.URL + "/research/video/query/",
		DetailURL:      srv.URL + "/research/video/detail/",
		UserURL:        srv.URL + "/research/user/info/",
		RequestTimeout: 5 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Millisecond,
	})
	require.NoError(t, client.Authenticate(context.Background()))
	return client, srv
}

func TestClient_AuthenticateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{TokenURL: srv.URL})
	err := client.Authenticate(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token request failed")
}

func TestClient_RequiresAuthentication(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.QueryVideos(context.Background(), &dto.VideoQueryRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestClient_QueryVideos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/research/video/query/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("fields"), "voice_to_text")

		var req dto.VideoQueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "20250115", req.StartDate)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"cursor":    100,
				"has_more":  true,
				"search_id": "search-abc",
				"videos":    []map[string]any{{"id": 7301, "username": "partei_a"}},
			},
			"error": map[string]any{"code": "ok", "message": ""},
		})
	})
	client, _ := newTestClient(t, mux)

	data, err := client.QueryVideos(context.Background(), &dto.VideoQueryRequest{
		MaxCount:  100,
		StartDate: "20250115",
		EndDate:   "20250115",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100), data.Cursor)
	assert.True(t, data.HasMore)
	assert.Equal(t, "search-abc", data.SearchID)
	require.Len(t, data.Videos, 1)
	assert.Equal(t, int64(7301), data.Videos[0].ID)
}

func TestClient_QueryVideos_TransientUpstreamError(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/research/video/query/", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "internal_error", "message": "Something is wrong"},
		})
	})
	client, _ := newTestClient(t, mux)

	_, err := client.QueryVideos(context.Background(), &dto.VideoQueryRequest{})

	require.Error(t, err)
	assert.True(t, dto.IsTransient(err))
	// Upstream error codes are not retried at the transport level.
	assert.Equal(t, 1, requests)
}

func TestClient_FetchVideoDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/research/video/detail/", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7301), req["video_id"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"video_metadata":    map[string]any{"id": 7301, "hashtags": []string{"wahl"}},
				"file_metadata":     map[string]any{"duration": 42},
				"music_metadata":    map[string]any{"id": 5},
				"author_metadata":   map[string]any{"id": 4411, "username": "partei_a"},
				"hashtags_metadata": []map[string]any{{"name": "wahl"}},
			},
			"error": map[string]any{"code": "ok"},
		})
	})
	client, _ := newTestClient(t, mux)

	detail, err := client.FetchVideoDetail(context.Background(), 7301)

	require.NoError(t, err)
	assert.Empty(t, detail.MissingSections())
	assert.Equal(t, int64(7301), detail.VideoMetadata.ID)
	assert.Equal(t, []string{"wahl"}, detail.VideoMetadata.Hashtags)
}

func TestClient_FetchVideoDetail_MissingDataIsTransient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/research/video/detail/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "ok"},
		})
	})
	client, _ := newTestClient(t, mux)

	_, err := client.FetchVideoDetail(context.Background(), 7301)

	require.Error(t, err)
	assert.True(t, dto.IsTransient(err))
}

func TestClient_MalformedBodyIsRetriedThenFatal(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/research/video/detail/", func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.FetchVideoDetail(context.Background(), 7301)

	require.Error(t, err)
	assert.Equal(t, 3, requests)
	assert.Contains(t, err.Error(), "giving up after 3 attempts")
	assert.False(t, dto.IsTransient(err))
}

func TestClient_FetchUserDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/research/user/info/", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "partei_a", req["username"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  map[string]any{"id": 4411, "username": "partei_a", "verified": true},
			"error": map[string]any{"code": "ok"},
		})
	})
	client, _ := newTestClient(t, mux)

	meta, err := client.FetchUserDetail(context.Background(), "partei_a")

	require.NoError(t, err)
	assert.Equal(t, int64(4411), meta.ID)
	require.NotNil(t, meta.Verified)
	assert.True(t, *meta.Verified)
}
