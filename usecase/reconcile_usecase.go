package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
)

// MissingSectionError is a data-validation failure: the fetched payload
// lacked one or more required metadata sections. It is recorded against the
// video and never aborts the batch.
type MissingSectionError struct {
	VideoID  int64
	Sections []string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("video %d: missing metadata sections: %s", e.VideoID, strings.Join(e.Sections, ", "))
}

// IReconcileUseCase maps raw fetched metadata onto the persisted schema.
type IReconcileUseCase interface {
	ReconcileVideo(ctx context.Context, videoID int64, detail *dto.VideoDetail) error
	// ReconcileUser reports whether the profile was saved; an empty payload
	// is recorded as a failed attempt and returns false without an error.
	ReconcileUser(ctx context.Context, authorID int64, meta *dto.AuthorMetadata) (bool, error)
}

// ReconcileUseCase implements the reconciliation policy: validate sections,
// enrich the author (first success wins), write the video in one transaction
// with wholesale replacement of its hashtag and mention sets. Store-level
// errors propagate to the caller as batch-fatal; data-validation problems are
// recorded and swallowed.
type ReconcileUseCase struct {
	videos   repository.IVideoStore
	accounts repository.IAccountStore
}

func NewReconcileUseCase(videos repository.IVideoStore, accounts repository.IAccountStore) *ReconcileUseCase {
	return &ReconcileUseCase{videos: videos, accounts: accounts}
}

func (u *ReconcileUseCase) ReconcileVideo(ctx context.Context, videoID int64, detail *dto.VideoDetail) error {
	missing := detail.MissingSections()
	if len(missing) > 0 {
		err := &MissingSectionError{VideoID: videoID, Sections: missing}
		if markErr := u.videos.MarkFailure(ctx, videoID, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}

	author := mapAuthor(detail.AuthorMetadata)
	if err := u.accounts.SaveScraped(ctx, author); err != nil {
		return fmt.Errorf("reconcile author of %d: %w", videoID, err)
	}

	video := mapVideo(videoID, detail)
	video.AuthorID = &detail.AuthorMetadata.ID

	vm := detail.VideoMetadata
	if err := u.videos.SaveScraped(ctx, video, vm.Hashtags, vm.Mentions); err != nil {
		return fmt.Errorf("reconcile video %d: %w", videoID, err)
	}

	logger.GetLogger().WithField("video_id", videoID).Info("Video reconciled")
	return nil
}

func (u *ReconcileUseCase) ReconcileUser(ctx context.Context, authorID int64, meta *dto.AuthorMetadata) (bool, error) {
	if meta == nil || meta.Username == "" {
		diag := fmt.Sprintf("account %d: profile payload empty", authorID)
		if markErr := u.accounts.MarkFailure(ctx, authorID, diag); markErr != nil {
			return false, markErr
		}
		return false, nil
	}
	user := mapAuthor(meta)
	user.AuthorID = authorID
	if err := u.accounts.SaveScraped(ctx, user); err != nil {
		return false, fmt.Errorf("reconcile account %d: %w", authorID, err)
	}
	logger.GetLogger().WithField("author_id", authorID).Info("Account reconciled")
	return true, nil
}

func mapAuthor(am *dto.AuthorMetadata) *model.TikTokUser {
	return &model.TikTokUser{
		AuthorID:           am.ID,
		Username:           am.Username,
		NickName:           am.Name,
		Signature:          am.Signature,
		CreateTime:         am.CreateTime,
		Verified:           am.Verified,
		FTC:                am.FTC,
		Relation:           am.Relation,
		OpenFavorite:       am.OpenFavorite,
		CommentSetting:     am.CommentSetting,
		DuetSetting:        am.DuetSetting,
		StitchSetting:      am.StitchSetting,
		DownloadSetting:    am.DownloadSetting,
		PrivateAccount:     am.PrivateAccount,
		Secret:             am.Secret,
		IsAdVirtual:        am.IsAdVirtual,
		RecommendReason:    am.RecommendReason,
		SuggestAccountBind: am.SuggestAccountBind,
	}
}

func mapVideo(videoID int64, detail *dto.VideoDetail) *model.TikTokVideo {
	vm := detail.VideoMetadata
	fm := detail.FileMetadata
	mm := detail.MusicMetadata

	video := &model.TikTokVideo{
		VideoID:          videoID,
		VideoDescription: vm.Description,
		RegionCode:       vm.LocationCreated,
		CommentCount:     vm.CommentCount,
		LikeCount:        vm.DiggCount,
		ShareCount:       vm.ShareCount,
		ViewCount:        vm.PlayCount,
		MusicID:          mm.ID,

		ScheduleTime:          vm.ScheduleTime,
		IsAd:                  vm.IsAd,
		SuggestedWords:        vm.SuggestedWords,
		DiggCount:             vm.DiggCount,
		CollectCount:          vm.CollectCount,
		RepostCount:           vm.RepostCount,
		PoiName:               vm.PoiName,
		PoiAddress:            vm.PoiAddress,
		PoiCity:               vm.PoiCity,
		WarnInfo:              vm.WarnInfo,
		OriginalItem:          vm.OriginalItem,
		OfficalItem:           vm.OfficalItem,
		Secret:                vm.Secret,
		ForFriend:             vm.ForFriend,
		Digged:                vm.Digged,
		ItemCommentStatus:     vm.ItemCommentStatus,
		TakeDown:              vm.TakeDown,
		EffectStickers:        vm.EffectStickers,
		PrivateItem:           vm.PrivateItem,
		DuetEnabled:           vm.DuetEnabled,
		StitchEnabled:         vm.StitchEnabled,
		StickersOnItem:        vm.StickersOnItem,
		ShareEnabled:          vm.ShareEnabled,
		Comments:              vm.Comments,
		DuetDisplay:           vm.DuetDisplay,
		StitchDisplay:         vm.StitchDisplay,
		IndexEnabled:          vm.IndexEnabled,
		DiversificationLabels: vm.DiversificationLabels,
		DiversificationID:     vm.DiversificationID,
		ChannelTags:           vm.ChannelTags,
		KeywordTags:           vm.KeywordTags,
		IsAIGC:                vm.IsAIGC,
		AIGCDescription:       vm.AIGCDescription,

		Filepath:           fm.Filepath,
		Duration:           fm.Duration,
		Height:             fm.Height,
		Width:              fm.Width,
		Ratio:              fm.Ratio,
		VolumeLoudness:     fm.VolumeLoudness,
		VolumePeak:         fm.VolumePeak,
		HasOriginalAudio:   fm.HasOriginalAudio,
		EnableAudioCaption: fm.EnableAudioCaption,
		NoCaptionReason:    fm.NoCaptionReason,
	}

	if vm.TimeCreated != nil {
		created := time.Unix(*vm.TimeCreated, 0).UTC()
		video.CreateTime = &created
	}
	return video
}
