package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds research API credentials, endpoints and transport tuning.
type Config struct {
	ClientKey    string
	ClientSecret string
	TokenURL     string
	QueryURL     string
	DetailURL    string
	UserURL      string

	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

// videoQueryFields are requested on every search call.
var videoQueryFields = []string{
	"id",
	"video_description",
	"create_time",
	"region_code",
	"share_count",
	"view_count",
	"like_count",
	"comment_count",
	"music_id",
	"hashtag_names",
	"username",
	"voice_to_text",
}

// fieldsParams is the query-string shape of the "fields" selector.
type fieldsParams struct {
	Fields []string `url:"fields,comma"`
}

// Client talks to the research API. One Client is one scraping session: the
// bearer token is acquired once in Authenticate and not refreshed
// proactively; mid-session expiry surfaces through the normal error path.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokenSrc   oauth2.TokenSource
}

var _ repository.IResearchAPI = (*Client)(nil)

// NewClient builds an unauthenticated client. Callers must run Authenticate
// before issuing fetches.
func NewClient(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Client{cfg: cfg}
}

// Authenticate exchanges client credentials for a bearer token and wires it
// into the underlying HTTP client. A failure here is session-fatal.
func (c *Client) Authenticate(ctx context.Context) error {
	cc := &clientcredentials.Config{
		ClientID:     c.cfg.ClientKey,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	c.tokenSrc = cc.TokenSource(ctx)
	if _, err := c.tokenSrc.Token(); err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	c.httpClient = &http.Client{
		Timeout:   c.cfg.RequestTimeout,
		Transport: &oauth2.Transport{Source: c.tokenSrc},
	}
	logger.GetLogger().Info("Research API session authenticated")
	return nil
}

// QueryVideos fetches one page of a search query.
func (c *Client) QueryVideos(ctx context.Context, req *dto.VideoQueryRequest) (*dto.VideoQueryData, error) {
	url, err := withFields(c.cfg.QueryURL, videoQueryFields)
	if err != nil {
		return nil, err
	}
	var resp dto.VideoQueryResponse
	if err := c.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}
	if apiErr := classify(resp.Error); apiErr != nil {
		return nil, apiErr
	}
	if resp.Data == nil {
		return nil, &dto.APIError{Code: "missing_data", Message: "response carried no data key", Transient: true}
	}
	return resp.Data, nil
}

// FetchVideoDetail fetches the sectioned metadata payload for one video.
func (c *Client) FetchVideoDetail(ctx context.Context, videoID int64) (*dto.VideoDetail, error) {
	body := map[string]any{"video_id": videoID}
	var resp struct {
		Data  *dto.VideoDetail `json:"data"`
		Error dto.APIErrorBody `json:"error"`
	}
	if err := c.postJSON(ctx, c.cfg.DetailURL, body, &resp); err != nil {
		return nil, err
	}
	if apiErr := classify(resp.Error); apiErr != nil {
		return nil, apiErr
	}
	if resp.Data == nil {
		return nil, &dto.APIError{Code: "missing_data", Message: "response carried no data key", Transient: true}
	}
	return resp.Data, nil
}

// FetchUserDetail fetches one account profile by username.
func (c *Client) FetchUserDetail(ctx context.Context, username string) (*dto.AuthorMetadata, error) {
	body := map[string]any{"username": username}
	var resp struct {
		Data  *dto.AuthorMetadata `json:"data"`
		Error dto.APIErrorBody    `json:"error"`
	}
	if err := c.postJSON(ctx, c.cfg.UserURL, body, &resp); err != nil {
		return nil, err
	}
	if apiErr := classify(resp.Error); apiErr != nil {
		return nil, apiErr
	}
	if resp.Data == nil {
		return nil, &dto.APIError{Code: "missing_data", Message: "response carried no data key", Transient: true}
	}
	return resp.Data, nil
}

// postJSON issues one POST and decodes the response. Connection failures and
// malformed payloads are retried at the transport level with a fixed delay;
// exhausting the retry ceiling escalates to the caller. Upstream error codes
// are not retried here, they are classified and returned.
func (c *Client) postJSON(ctx context.Context, url string, reqBody, dest any) error {
	if c.httpClient == nil {
		return fmt.Errorf("client is not authenticated")
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	return retryDo(ctx, c.cfg.RetryAttempts, c.cfg.RetryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &transportError{err: err}
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return &transportError{err: err}
		}
		logger.GetLogger().WithField("status", resp.StatusCode).Debug("Research API response received")

		if err := json.Unmarshal(raw, dest); err != nil {
			return &transportError{err: fmt.Errorf("malformed response body: %w", err)}
		}
		return nil
	}, isTransportError)
}

// transportError marks failures below the API contract: connection problems
// and undecodable bodies. Only these are retried inside the client.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isTransportError(err error) bool {
	var te *transportError
	return errors.As(err, &te)
}

// classify turns a non-ok upstream error body into an APIError, nil otherwise.
func classify(body dto.APIErrorBody) *dto.APIError {
	if body.Code == "" || body.Code == "ok" {
		return nil
	}
	return dto.NewAPIError(body)
}

func withFields(baseURL string, fields []string) (string, error) {
	v, err := query.Values(fieldsParams{Fields: fields})
	if err != nil {
		return "", fmt.Errorf("encode fields selector: %w", err)
	}
	return baseURL + "?" + v.Encode(), nil
}
