package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
)

// ExtractVideoIDs turns donated browsing-history records into a deduplicated
// list of video identifiers. The identifier is the last path segment of the
// Link field; entries with a missing or non-numeric segment are dropped
// silently (filtering policy, not an error). When minDate is set, records
// without a parseable Date or watched before the cutoff are excluded to
// bound backlog growth.
func ExtractVideoIDs(records []dto.DonationRecord, minDate *time.Time) []int64 {
	seen := make(map[int64]struct{}, len(records))
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		if record.Link == "" {
			continue
		}
		if minDate != nil {
			watched, err := time.Parse(dto.DonationDateLayout, record.Date)
			if err != nil || watched.Before(*minDate) {
				continue
			}
		}
		trimmed := strings.TrimRight(record.Link, "/")
		segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
		id, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			logger.GetLogger().WithField("segment", segment).
				Debug("Dropping donation link with non-numeric identifier")
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ExtractSearchIDs pulls identifiers out of already-structured search
// results.
func ExtractSearchIDs(videos []dto.SearchVideo) []int64 {
	seen := make(map[int64]struct{}, len(videos))
	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		if v.ID == 0 {
			continue
		}
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		ids = append(ids, v.ID)
	}
	return ids
}

// LoadDonationRecords reads one participant's decrypted donation JSON from
// disk. Decryption and consent checks happen upstream; this pipeline only
// ever sees plain JSON.
func LoadDonationRecords(path string) ([]dto.DonationRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read donation file: %w", err)
	}
	var records []dto.DonationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse donation file %s: %w", path, err)
	}
	return records, nil
}
