package repository

import (
	"context"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
)

// IResearchAPI is the rate-limited metadata source. Implementations classify
// every response at the fetch boundary: a well-formed payload returns data, a
// recognized transient upstream condition returns *dto.APIError with
// Transient set, and transport failures that survive the bounded retry are
// returned as plain errors (fatal for that unit).
type IResearchAPI interface {
	// Authenticate exchanges client credentials for a bearer token. Called
	// once per session; a failure here is fatal for the whole run.
	Authenticate(ctx context.Context) error

	// QueryVideos fetches one page of a search query. Cursor and SearchID
	// from the returned data must be carried into the next request of the
	// same logical query.
	QueryVideos(ctx context.Context, req *dto.VideoQueryRequest) (*dto.VideoQueryData, error)

	// FetchVideoDetail fetches the sectioned metadata payload for one video.
	FetchVideoDetail(ctx context.Context, videoID int64) (*dto.VideoDetail, error)

	// FetchUserDetail fetches the profile of one account by username.
	FetchUserDetail(ctx context.Context, username string) (*dto.AuthorMetadata, error)
}
