package resend

// MigrationReport is the payload for the post-migration summary mail.
type MigrationReport struct {
	Message       string `json:"message"`
	MigratedCount int    `json:"migratedCount"`
	NewSlotID     string `json:"newSlotId"`
	BackupKey     string `json:"backupKey"`
}
