package filecsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
)

// exportHeader is the column order of the video dataset dump.
var exportHeader = []string{
	"video_id",
	"video_description",
	"create_time",
	"username",
	"comment_count",
	"like_count",
	"share_count",
	"view_count",
	"region_code",
	"music_id",
	"hashtags",
	"scrape_date",
	"scrape_success",
}

// VideoWriter streams scraped videos into a CSV file.
type VideoWriter struct {
	file *os.File
	csv  *csv.Writer
}

func NewVideoWriter(path string) (*VideoWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating export file")
		return nil, err
	}
	w := &VideoWriter{file: file, csv: csv.NewWriter(file)}
	if err := w.csv.Write(exportHeader); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return w, nil
}

// WriteBatch appends one batch of videos.
func (w *VideoWriter) WriteBatch(videos []model.TikTokVideo) error {
	for i := range videos {
		if err := w.csv.Write(videoRow(&videos[i])); err != nil {
			return fmt.Errorf("write video %d: %w", videos[i].VideoID, err)
		}
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *VideoWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

func videoRow(v *model.TikTokVideo) []string {
	username := ""
	if v.Author != nil {
		username = v.Author.Username
	}
	tags := make([]string, 0, len(v.Hashtags))
	for _, h := range v.Hashtags {
		tags = append(tags, h.Name)
	}
	return []string{
		strconv.FormatInt(v.VideoID, 10),
		strPtr(v.VideoDescription),
		timePtr(v.CreateTime),
		username,
		intPtr(v.CommentCount),
		intPtr(v.LikeCount),
		intPtr(v.ShareCount),
		intPtr(v.ViewCount),
		strPtr(v.RegionCode),
		intPtr(v.MusicID),
		strings.Join(tags, " "),
		timePtr(v.ScrapeDate),
		strconv.FormatBool(v.ScrapeSuccess),
	}
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(i *int64) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(*i, 10)
}

func timePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
