package dto

// VideoDetail is the sectioned per-video payload returned by the detail
// fetch. All five sections must be present for reconciliation; a missing
// section fails the unit as a data-validation error, not a pipeline error.
type VideoDetail struct {
	VideoMetadata  *VideoMetadata  `json:"video_metadata"`
	FileMetadata   *FileMetadata   `json:"file_metadata"`
	MusicMetadata  *MusicMetadata  `json:"music_metadata"`
	AuthorMetadata *AuthorMetadata `json:"author_metadata"`
	// Pointer-to-slice so an absent hashtags_metadata key is distinguishable
	// from a present-but-empty list.
	HashtagsMetadata *[]HashtagMetadata `json:"hashtags_metadata"`
}

// SectionNames lists the required top-level sections of a VideoDetail.
var SectionNames = []string{
	"video_metadata",
	"file_metadata",
	"music_metadata",
	"author_metadata",
	"hashtags_metadata",
}

// MissingSections returns the names of required sections absent from d.
// The hashtags_metadata section counts as present when its key was sent,
// even with an empty list.
func (d *VideoDetail) MissingSections() []string {
	var missing []string
	if d.VideoMetadata == nil {
		missing = append(missing, "video_metadata")
	}
	if d.FileMetadata == nil {
		missing = append(missing, "file_metadata")
	}
	if d.MusicMetadata == nil {
		missing = append(missing, "music_metadata")
	}
	if d.AuthorMetadata == nil {
		missing = append(missing, "author_metadata")
	}
	if d.HashtagsMetadata == nil {
		missing = append(missing, "hashtags_metadata")
	}
	return missing
}

// VideoMetadata carries the scalar video fields plus the hashtag names and
// mentioned author ids used to rebuild the relation sets.
type VideoMetadata struct {
	ID                    int64    `json:"id"`
	Description           *string  `json:"description"`
	TimeCreated           *int64   `json:"time_created"`
	LocationCreated       *string  `json:"location_created"`
	CommentCount          *int64   `json:"commentcount"`
	DiggCount             *int64   `json:"diggcount"`
	ShareCount            *int64   `json:"sharecount"`
	PlayCount             *int64   `json:"playcount"`
	CollectCount          *int64   `json:"collectcount"`
	RepostCount           *int64   `json:"repostcount"`
	ScheduleTime          *int64   `json:"schedule_time"`
	IsAd                  *bool    `json:"is_ad"`
	SuggestedWords        *string  `json:"suggested_words"`
	PoiName               *string  `json:"poi_name"`
	PoiAddress            *string  `json:"poi_address"`
	PoiCity               *string  `json:"poi_city"`
	WarnInfo              *string  `json:"warn_info"`
	OriginalItem          *bool    `json:"original_item"`
	OfficalItem           *bool    `json:"offical_item"`
	Secret                *bool    `json:"secret"`
	ForFriend             *bool    `json:"for_friend"`
	Digged                *bool    `json:"digged"`
	ItemCommentStatus     *int16   `json:"item_comment_status"`
	TakeDown              *int     `json:"take_down"`
	EffectStickers        *string  `json:"effect_stickers"`
	PrivateItem           *bool    `json:"private_item"`
	DuetEnabled           *bool    `json:"duet_enabled"`
	StitchEnabled         *bool    `json:"stitch_enabled"`
	StickersOnItem        *string  `json:"stickers_on_item"`
	ShareEnabled          *bool    `json:"share_enabled"`
	Comments              *string  `json:"comments"`
	DuetDisplay           *int     `json:"duet_display"`
	StitchDisplay         *int     `json:"stitch_display"`
	IndexEnabled          *bool    `json:"index_enabled"`
	DiversificationLabels *string  `json:"diversification_labels"`
	DiversificationID     *int64   `json:"diversification_id"`
	ChannelTags           *string  `json:"channel_tags"`
	KeywordTags           *string  `json:"keyword_tags"`
	IsAIGC                *bool    `json:"is_ai_gc"`
	AIGCDescription       *string  `json:"ai_gc_description"`
	Hashtags              []string `json:"hashtags"`
	Mentions              []int64  `json:"mentions"`
}

// FileMetadata carries the technical audio/video fields.
type FileMetadata struct {
	Filepath           *string  `json:"filepath"`
	Duration           *int     `json:"duration"`
	Height             *int     `json:"height"`
	Width              *int     `json:"width"`
	Ratio              *int     `json:"ratio"`
	VolumeLoudness     *float64 `json:"volume_loudness"`
	VolumePeak         *float64 `json:"volume_peak"`
	HasOriginalAudio   *bool    `json:"has_original_audio"`
	EnableAudioCaption *bool    `json:"enable_audio_caption"`
	NoCaptionReason    *int16   `json:"no_caption_reason"`
}

// MusicMetadata carries the track reference.
type MusicMetadata struct {
	ID *int64 `json:"id"`
}

// AuthorMetadata is the author profile section.
type AuthorMetadata struct {
	ID                 int64   `json:"id"`
	Username           string  `json:"username"`
	Name               *string `json:"name"`
	Signature          *string `json:"signature"`
	CreateTime         *int64  `json:"create_time"`
	Verified           *bool   `json:"verified"`
	FTC                *bool   `json:"ftc"`
	Relation           *int    `json:"relation"`
	OpenFavorite       *bool   `json:"open_favorite"`
	CommentSetting     *int    `json:"comment_setting"`
	DuetSetting        *int16  `json:"duet_setting"`
	StitchSetting      *int16  `json:"stitch_setting"`
	DownloadSetting    *int16  `json:"download_setting"`
	PrivateAccount     *bool   `json:"private_account"`
	Secret             *bool   `json:"secret"`
	IsAdVirtual        *bool   `json:"is_ad_virtual"`
	RecommendReason    *string `json:"recommend_reason"`
	SuggestAccountBind *bool   `json:"suggest_account_bind"`
}

// HashtagMetadata is one entry of the hashtags_metadata section.
type HashtagMetadata struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}
