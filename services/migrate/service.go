package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/charmbracelet/log"
	"golang.org/x/xerrors"

	"github.com/eclipse-gg/pov-archive/pkg/dateutil"
	"github.com/eclipse-gg/pov-archive/pkg/metrics"
	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
	"github.com/eclipse-gg/pov-archive/repos/resend"
)

const (
	legacyCollection = "povs"
	legacySlotName   = "Legacy Uploads"
)

// MigrateService moves the flat legacy POV collection into the
// Slot → Match → POV hierarchy. One-shot and deliberately not idempotent:
// re-running creates a second Legacy Uploads slot and duplicates matches.
type MigrateService struct {
	store     docstore.Store
	mirror    *mirror.Store
	mail      *resend.Service
	backupDir string
}

func NewMigrateService(store docstore.Store, mirrorStore *mirror.Store, mail *resend.Service, backupDir string) *MigrateService {
	return &MigrateService{
		store:     store,
		mirror:    mirrorStore,
		mail:      mail,
		backupDir: backupDir,
	}
}

// Backup snapshots the whole legacy collection, newest first, into the
// mirror under a timestamped key and into a JSON file on disk. A nil slice
// means the backup failed or the store is unavailable; partial backups are
// never retried.
func (s *MigrateService) Backup(ctx context.Context) ([]LegacyPOV, BackupResult, error) {
	if !s.store.Available() {
		log.Warn("Document store not available, skipping backup")
		return nil, BackupResult{}, xerrors.New("document store not available")
	}

	docs, err := s.store.GetAll(ctx, s.store.Collection(legacyCollection).OrderBy("createdAt", firestore.Desc))
	if err != nil {
		log.Error("Backup failed", "error", err)
		return nil, BackupResult{}, err
	}

	data := make([]LegacyPOV, 0, len(docs))
	for _, doc := range docs {
		var d legacyPOVDoc
		if err := doc.DataTo(&d); err != nil {
			log.Error("Backup decode failed", "doc", doc.Ref.ID, "error", err)
			return nil, BackupResult{}, err
		}
		data = append(data, LegacyPOV{
			ID:         doc.Ref.ID,
			PlayerName: d.PlayerName,
			Title:      d.Title,
			Date:       d.Date,
			VideoID:    d.VideoID,
			YouTubeURL: d.YouTubeURL,
			CreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	backupKey := fmt.Sprintf("eclipse_backup_%d", time.Now().UnixMilli())
	s.mirror.Write(backupKey, data)
	log.Info("Backed up legacy POVs", "count", len(data), "key", backupKey)

	result := BackupResult{Count: len(data), BackupKey: backupKey}

	// Also exported as a downloadable file, best effort.
	file := filepath.Join(s.backupDir, fmt.Sprintf("pov_backup_%s.json", dateutil.TodayString()))
	if payload, err := json.MarshalIndent(data, "", "  "); err == nil {
		if err := os.WriteFile(file, payload, 0o644); err != nil {
			log.Warn("Backup file export failed", "file", file, "error", err)
		} else {
			result.File = file
		}
	}

	return data, result, nil
}

// Migrate runs the full pipeline: backup, create the Legacy Uploads slot,
// one match per calendar day, then the POVs of that day sequentially. There
// is no rollback; an error mid-loop aborts and leaves the partial hierarchy
// in place.
func (s *MigrateService) Migrate(ctx context.Context) MigrationResult {
	if !s.store.Available() {
		return MigrationResult{Success: false, Message: "document store not available"}
	}

	log.Info("Starting migration")
	backup, backupResult, err := s.Backup(ctx)
	if err != nil {
		return MigrationResult{Success: false, Message: err.Error()}
	}
	if len(backup) == 0 {
		log.Info("No data to migrate")
		return MigrationResult{Success: true, Message: "No data to migrate"}
	}

	slotRef, err := s.store.Add(ctx, s.store.Collection("slots"), map[string]any{
		"name":        legacySlotName,
		"description": "POVs migrated from old structure",
		"date":        time.Now().UTC().Format(time.RFC3339),
		"createdAt":   firestore.ServerTimestamp,
	})
	if err != nil {
		return MigrationResult{Success: false, Message: err.Error()}
	}
	log.Info("Created legacy uploads slot", "slot", slotRef.ID)

	groups := groupByDay(backup)
	totalMigrated := 0
	matchNumber := 1

	for _, day := range orderedDays(groups) {
		matchRef, err := s.store.Add(ctx, s.store.Collection("slots", slotRef.ID, "matches"), map[string]any{
			"matchNumber": matchNumber,
			"description": fmt.Sprintf("Migrated POVs from %s", day),
			"createdAt":   firestore.ServerTimestamp,
		})
		if err != nil {
			return MigrationResult{Success: false, Message: err.Error(), MigratedCount: totalMigrated, NewSlotID: slotRef.ID}
		}
		log.Info("Created match for day group", "matchNumber", matchNumber, "day", day)

		for _, pov := range groups[day] {
			data := map[string]any{
				"playerName": pov.PlayerName,
				"title":      pov.Title,
				"date":       pov.Date,
				"videoId":    pov.VideoID,
				"youtubeUrl": pov.YouTubeURL,
			}
			if created, ok := dateutil.Parse(pov.CreatedAt); ok {
				data["createdAt"] = created
			} else {
				data["createdAt"] = firestore.ServerTimestamp
			}

			_, err := s.store.Add(ctx, s.store.Collection("slots", slotRef.ID, "matches", matchRef.ID, "povs"), data)
			if err != nil {
				return MigrationResult{Success: false, Message: err.Error(), MigratedCount: totalMigrated, NewSlotID: slotRef.ID}
			}
			totalMigrated++
			metrics.MigratedPOVs.Inc()
		}

		matchNumber++
	}

	result := MigrationResult{
		Success:       true,
		Message:       fmt.Sprintf("Migrated %d POVs into %d matches", totalMigrated, matchNumber-1),
		MigratedCount: totalMigrated,
		NewSlotID:     slotRef.ID,
	}
	log.Info("Migration complete", "migrated", totalMigrated, "matches", matchNumber-1)

	if err := s.mail.SendMigrationReport(resend.MigrationReport{
		Message:       result.Message,
		MigratedCount: result.MigratedCount,
		NewSlotID:     result.NewSlotID,
		BackupKey:     backupResult.BackupKey,
	}); err != nil {
		log.Warn("Migration report mail failed", "error", err)
	}

	return result
}

// Validate walks the whole hierarchy counting totals. Valid means the
// hierarchy holds at least one POV, nothing more.
func (s *MigrateService) Validate(ctx context.Context) ValidationResult {
	if !s.store.Available() {
		return ValidationResult{Valid: false, Message: "document store not available"}
	}

	slotDocs, err := s.store.GetAll(ctx, s.store.Collection("slots").Query)
	if err != nil {
		return ValidationResult{Valid: false, Message: err.Error()}
	}

	totalSlots := len(slotDocs)
	totalMatches := 0
	totalPOVs := 0

	for _, slotDoc := range slotDocs {
		matchDocs, err := s.store.GetAll(ctx, s.store.Collection("slots", slotDoc.Ref.ID, "matches").Query)
		if err != nil {
			return ValidationResult{Valid: false, Message: err.Error()}
		}
		totalMatches += len(matchDocs)

		for _, matchDoc := range matchDocs {
			n, err := s.store.Count(ctx, s.store.Collection("slots", slotDoc.Ref.ID, "matches", matchDoc.Ref.ID, "povs"))
			if err != nil {
				return ValidationResult{Valid: false, Message: err.Error()}
			}
			totalPOVs += n
		}
	}

	log.Info("Migration validation", "slots", totalSlots, "matches", totalMatches, "povs", totalPOVs)

	return ValidationResult{
		Valid:        totalPOVs > 0,
		TotalSlots:   totalSlots,
		TotalMatches: totalMatches,
		TotalPOVs:    totalPOVs,
		Message:      fmt.Sprintf("Found %d slots, %d matches, %d POVs", totalSlots, totalMatches, totalPOVs),
	}
}

// groupByDay buckets legacy records by ISO calendar day, with a literal
// "unknown" bucket for unparseable dates.
func groupByDay(backup []LegacyPOV) map[string][]LegacyPOV {
	groups := map[string][]LegacyPOV{}
	for _, pov := range backup {
		key := dateutil.DayKey(pov.Date)
		groups[key] = append(groups[key], pov)
	}
	return groups
}

// orderedDays returns the day keys ascending, "unknown" last. Match numbers
// are assigned in this order, so the earliest day becomes match 1.
func orderedDays(groups map[string][]LegacyPOV) []string {
	days := make([]string, 0, len(groups))
	hasUnknown := false
	for day := range groups {
		if day == "unknown" {
			hasUnknown = true
			continue
		}
		days = append(days, day)
	}
	sort.Strings(days)
	if hasUnknown {
		days = append(days, "unknown")
	}
	return days
}
