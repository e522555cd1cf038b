package resend

import (
	"fmt"

	"github.com/charmbracelet/log"
	resend "github.com/resend/resend-go/v2"
)

// Service sends the post-migration report mail. It is optional: with no API
// key configured every send is a logged no-op.
type Service struct {
	client *resend.Client
	to     string
}

// NewService creates a mail service. apiKey or to may be empty.
func NewService(apiKey, to string) *Service {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &Service{
		client: client,
		to:     to,
	}
}

// SendMigrationReport mails a summary of a finished migration run.
func (s *Service) SendMigrationReport(report MigrationReport) error {
	if s.client == nil || s.to == "" {
		log.Info("Mail not configured, skipping migration report")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    "onboarding@resend.dev",
		To:      []string{s.to},
		Subject: "POV archive migration report",
		Html:    reportTemplate(report),
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		log.Error("Failed to send migration report", "error", err)
		return err
	}
	return nil
}

func reportTemplate(r MigrationReport) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
    <h2>Migration finished</h2>
    <p>%s</p>
    <ul>
        <li>Migrated POVs: %d</li>
        <li>New slot: %s</li>
        <li>Backup key: %s</li>
    </ul>
</body>
</html>`, r.Message, r.MigratedCount, r.NewSlotID, r.BackupKey)
}
