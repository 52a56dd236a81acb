package model

import "time"

// Hashtag is a deduplicated tag identified by name. Rows are created on first
// sighting and never updated afterwards; the extra columns are reserved for a
// possible future enrichment pass and stay null until then.
type Hashtag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null"`

	AuthorID        *int64  `gorm:"column:author_id"`
	NickName        *string `gorm:"type:varchar(255)"`
	Signature       *string `gorm:"type:text"`
	CreateTime      *int64
	Verified        bool `gorm:"default:false"`
	CommentSetting  *int
	DuetSetting     *int16
	StitchSetting   *int16
	DownloadSetting *int16
	PrivateAccount  bool `gorm:"default:false"`
	Secret          bool `gorm:"default:false"`
	IsAdVirtual     bool `gorm:"default:false"`
}

func (Hashtag) TableName() string { return "scraper_hashtag" }

// TikTokUser is an author or mentioned account. A row may start as a stub
// (placeholder username, no profile data) created to satisfy a reference from
// a video and is filled in by its own first successful scrape.
type TikTokUser struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	AuthorID int64  `gorm:"uniqueIndex;not null"`
	Username string `gorm:"type:varchar(255)"`

	NickName           *string `gorm:"type:varchar(255)"`
	Signature          *string `gorm:"type:text"`
	CreateTime         *int64
	Verified           *bool
	FTC                *bool `gorm:"column:ftc"`
	Relation           *int
	OpenFavorite       *bool
	CommentSetting     *int
	DuetSetting        *int16
	StitchSetting      *int16
	DownloadSetting    *int16
	PrivateAccount     *bool
	Secret             *bool
	IsAdVirtual        *bool
	RecommendReason    *string `gorm:"type:varchar(255)"`
	SuggestAccountBind *bool

	DateAdded     time.Time  `gorm:"autoCreateTime"`
	ScrapeDate    *time.Time `gorm:"index"`
	ScrapeSuccess bool       `gorm:"default:false"`
	ScrapeStatus  *string    `gorm:"type:text"`
}

func (TikTokUser) TableName() string { return "scraper_tiktokuser_b" }

// StubUsername marks accounts that only exist to satisfy a foreign-key
// reference and have not been scraped themselves yet.
const StubUsername = "<<placeholder until scraped>>"

// TikTokVideo is one video in the backlog. A row is created identifier-only
// when the id is first observed (donation or search feed) and enriched exactly
// once, by the reconciliation pass that succeeds first.
type TikTokVideo struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	VideoID          int64   `gorm:"uniqueIndex;not null"`
	VideoDescription *string `gorm:"type:text"`
	CreateTime       *time.Time
	AuthorID         *int64      `gorm:"index"`
	Author           *TikTokUser `gorm:"foreignKey:AuthorID;references:AuthorID"`

	CommentCount *int64
	LikeCount    *int64
	ShareCount   *int64
	ViewCount    *int64

	MusicID     *int64
	RegionCode  *string `gorm:"type:varchar(255)"`
	VoiceToText *string `gorm:"type:text"`

	ScheduleTime          *int64
	IsAd                  *bool
	SuggestedWords        *string `gorm:"type:varchar(255)"`
	DiggCount             *int64
	CollectCount          *int64
	RepostCount           *int64
	PoiName               *string `gorm:"type:varchar(255)"`
	PoiAddress            *string `gorm:"type:varchar(255)"`
	PoiCity               *string `gorm:"type:varchar(255)"`
	WarnInfo              *string `gorm:"type:jsonb"`
	OriginalItem          *bool
	OfficalItem           *bool
	Secret                *bool
	ForFriend             *bool
	Digged                *bool
	ItemCommentStatus     *int16
	TakeDown              *int
	EffectStickers        *string `gorm:"type:varchar(255)"`
	PrivateItem           *bool
	DuetEnabled           *bool
	StitchEnabled         *bool
	StickersOnItem        *string `gorm:"type:varchar(255)"`
	ShareEnabled          *bool
	Comments              *string `gorm:"type:varchar(255)"`
	DuetDisplay           *int
	StitchDisplay         *int
	IndexEnabled          *bool
	DiversificationLabels *string `gorm:"type:varchar(255)"`
	DiversificationID     *int64
	ChannelTags           *string `gorm:"type:varchar(255)"`
	KeywordTags           *string `gorm:"type:varchar(255)"`
	IsAIGC                *bool   `gorm:"column:is_ai_gc"`
	AIGCDescription       *string `gorm:"column:ai_gc_description;type:text"`

	Filepath           *string `gorm:"type:text"`
	Duration           *int
	Height             *int
	Width              *int
	Ratio              *int
	VolumeLoudness     *float64
	VolumePeak         *float64
	HasOriginalAudio   *bool
	EnableAudioCaption *bool
	NoCaptionReason    *int16

	Hashtags []Hashtag    `gorm:"many2many:scraper_tiktokvideo_b_hashtags"`
	Mentions []TikTokUser `gorm:"many2many:scraper_tiktokvideo_b_mentions"`

	DateAdded      time.Time  `gorm:"autoCreateTime;index"`
	ScrapeDate     *time.Time `gorm:"index"`
	ScrapeSuccess  bool       `gorm:"default:false"`
	ScrapeStatus   *string    `gorm:"type:text"`
	ScrapePriority int        `gorm:"default:0;index"`
}

func (TikTokVideo) TableName() string { return "scraper_tiktokvideo_b" }

// ScrapeStats summarizes backlog progress for videos or users.
type ScrapeStats struct {
	Total     int64
	Attempted int64
	Success   int64
}

// TemporalCount is the number of videos created on one day.
type TemporalCount struct {
	Day   time.Time
	Count int64
}

// HashtagCount is the number of successfully scraped videos carrying one tag.
type HashtagCount struct {
	Name  string
	Count int64
}

// AccountStat aggregates engagement counters per author.
type AccountStat struct {
	Username   string
	VideoCount int64
	ViewSum    int64
	LikeSum    int64
}
