package dto

import "fmt"

// QueryCondition is one field predicate of the research API's boolean query
// tree ("operation" is IN/EQ/..., values are matched against field_name).
type QueryCondition struct {
	Operation   string   `json:"operation"`
	FieldName   string   `json:"field_name"`
	FieldValues []string `json:"field_values"`
}

// Query is the boolean query tree sent with a video search.
type Query struct {
	Or  []QueryCondition `json:"or,omitempty"`
	And []QueryCondition `json:"and,omitempty"`
}

// VideoQueryRequest is the POST body of /v2/research/video/query/.
// Dates are 8-digit strings (YYYYMMDD); the range must not exceed 30 days,
// wider ranges are split by the client before querying. Cursor and SearchID
// are carried forward between pages of one logical query.
type VideoQueryRequest struct {
	Query     Query  `json:"query"`
	MaxCount  int    `json:"max_count"`
	IsRandom  bool   `json:"is_random"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Cursor    int64  `json:"cursor"`
	SearchID  string `json:"search_id,omitempty"`
}

// SearchVideo is the flat video shape returned by the search endpoint.
type SearchVideo struct {
	ID               int64    `json:"id"`
	VideoDescription string   `json:"video_description"`
	CreateTime       int64    `json:"create_time"`
	RegionCode       string   `json:"region_code"`
	ShareCount       *int64   `json:"share_count"`
	ViewCount        *int64   `json:"view_count"`
	LikeCount        *int64   `json:"like_count"`
	CommentCount     *int64   `json:"comment_count"`
	MusicID          *int64   `json:"music_id"`
	HashtagNames     []string `json:"hashtag_names"`
	Username         string   `json:"username"`
	VoiceToText      *string  `json:"voice_to_text"`
}

// VideoQueryData is the payload under the response's "data" key.
type VideoQueryData struct {
	Cursor   int64         `json:"cursor"`
	HasMore  bool          `json:"has_more"`
	SearchID string        `json:"search_id"`
	Videos   []SearchVideo `json:"videos"`
}

// APIErrorBody mirrors the "error" object every research API response carries
// (code "ok" on success).
type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

// VideoQueryResponse is the full search response envelope.
type VideoQueryResponse struct {
	Data  *VideoQueryData `json:"data"`
	Error APIErrorBody    `json:"error"`
}

// Transient error codes the upstream API is known to return for conditions
// that clear up on their own.
const (
	ErrCodeInternal      = "internal_error"
	ErrCodeInvalidParams = "invalid_params"
)

// APIError is a classified upstream failure. Transient errors are retried by
// the orchestrator after a cooldown and feed the consecutive-error
// kill-switch; non-transient ones fail the unit immediately.
type APIError struct {
	Code      string
	Message   string
	Transient bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("research api error %s: %s", e.Code, e.Message)
}

// NewAPIError classifies an upstream error body.
func NewAPIError(body APIErrorBody) *APIError {
	return &APIError{
		Code:      body.Code,
		Message:   body.Message,
		Transient: body.Code == ErrCodeInternal || body.Code == ErrCodeInvalidParams,
	}
}

// IsTransient reports whether err is an APIError marked transient.
func IsTransient(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Transient
}
