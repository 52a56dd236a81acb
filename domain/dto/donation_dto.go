package dto

// DonationRecord is one entry of a participant's decrypted browsing history.
// Only Link is required; entries with a malformed or absent link are filtered
// out during extraction rather than treated as errors.
type DonationRecord struct {
	Link string `json:"Link"`
	Date string `json:"Date"`
}

// DonationDateLayout is the timestamp format of DonationRecord.Date.
const DonationDateLayout = "2006-01-02 15:04:05"
