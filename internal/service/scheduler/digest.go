package scheduler

import (
	"fmt"
	"time"

	"github.com/gramseva/gram-seva-backend/internal/models"
)

// buildDigestNotifications transforms stale complaints into reminder rows for
// their assigned officers. Unassigned complaints are skipped; there is nobody
// to remind.
func buildDigestNotifications(complaints []models.Complaint, now time.Time) []models.ComplaintNotification {
	notifications := make([]models.ComplaintNotification, 0, len(complaints))

	for _, complaint := range complaints {
		if complaint.AssignedOfficerID == nil || *complaint.AssignedOfficerID == "" {
			continue
		}

		days := int(now.Sub(complaint.SubmittedAt).Hours() / 24)
		message := fmt.Sprintf(
			"Reminder: %s complaint at %q has been pending for %d day(s).",
			complaint.Category, complaint.LocationName, days,
		)

		notifications = append(notifications, models.ComplaintNotification{
			ComplaintID:     complaint.ID,
			RecipientUserID: *complaint.AssignedOfficerID,
			Message:         message,
		})
	}

	return notifications
}
