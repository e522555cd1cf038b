package migrate

import "time"

// LegacyPOV is a record of the pre-hierarchy flat collection.
type LegacyPOV struct {
	ID         string `json:"id" msgpack:"id"`
	PlayerName string `json:"playerName" msgpack:"playerName"`
	Title      string `json:"title" msgpack:"title"`
	Date       string `json:"date" msgpack:"date"`
	VideoID    string `json:"videoId" msgpack:"videoId"`
	YouTubeURL string `json:"youtubeUrl" msgpack:"youtubeUrl"`
	CreatedAt  string `json:"createdAt" msgpack:"createdAt"`
}

type legacyPOVDoc struct {
	PlayerName string    `firestore:"playerName"`
	Title      string    `firestore:"title"`
	Date       string    `firestore:"date"`
	VideoID    string    `firestore:"videoId"`
	YouTubeURL string    `firestore:"youtubeUrl"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

// MigrationResult reports one migration run. A failed run leaves whatever
// was already written in place; re-running duplicates data.
type MigrationResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	MigratedCount int    `json:"migratedCount"`
	NewSlotID     string `json:"newSlotId,omitempty"`
}

// ValidationResult only checks that the hierarchy is non-empty; it does not
// compare against the pre-migration backup count.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	TotalSlots   int    `json:"totalSlots"`
	TotalMatches int    `json:"totalMatches"`
	TotalPOVs    int    `json:"totalPOVs"`
	Message      string `json:"message"`
}

// BackupResult points at the snapshot written by a backup run.
type BackupResult struct {
	Count     int    `json:"count"`
	BackupKey string `json:"backupKey"`
	File      string `json:"file,omitempty"`
}
