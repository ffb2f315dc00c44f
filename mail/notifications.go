/*
notifications.go - lifecycle notification bodies

Small HTML notices sent to the employee when a record is registered and
every time its status changes. These are built here (not in the engine)
so the engine stays free of presentation concerns.
*/
package mail

import (
	"fmt"

	"github.com/sigi/incapacity-engine/incapacity"
)

const notificationDateLayout = "02/01/2006"

// RegistrationNotice builds the confirmation email sent to the employee
// right after a record is registered.
func RegistrationNotice(to, employeeName string, rec incapacity.Record) Message {
	period := fmt.Sprintf("%s to %s",
		rec.PeriodStart.Format(notificationDateLayout),
		rec.PeriodEnd.Format(notificationDateLayout))

	text := fmt.Sprintf(
		"Hello %s,\n\nYour incapacity for the period %s was registered and is awaiting validation.\n\nReference: %s\n\nSIGI - Incapacity Management System",
		employeeName, period, rec.ID)

	html := fmt.Sprintf(noticeTemplate,
		"Incapacity Registered",
		fmt.Sprintf("Hello <strong>%s</strong>,", employeeName),
		fmt.Sprintf("Your incapacity for the period <strong>%s</strong> was registered and is awaiting validation.", period),
		fmt.Sprintf("Reference: %s", rec.ID))

	return Message{
		To:      []string{to},
		Subject: "Your incapacity was registered",
		Text:    text,
		HTML:    html,
	}
}

// StatusChangeNotice builds the email sent to the employee when the status
// of one of their records changes.
func StatusChangeNotice(to, employeeName string, rec incapacity.Record, previous incapacity.Status) Message {
	text := fmt.Sprintf(
		"Hello %s,\n\nThe status of your incapacity %s changed from %s to %s.\n\nSIGI - Incapacity Management System",
		employeeName, rec.ID, previous, rec.Status)

	html := fmt.Sprintf(noticeTemplate,
		"Incapacity Status Update",
		fmt.Sprintf("Hello <strong>%s</strong>,", employeeName),
		fmt.Sprintf("The status of your incapacity changed from <strong>%s</strong> to <strong>%s</strong>.", previous, rec.Status),
		fmt.Sprintf("Reference: %s", rec.ID))

	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Incapacity status update: %s", rec.Status),
		Text:    text,
		HTML:    html,
	}
}

// noticeTemplate keeps the notices visually consistent with the HTML
// report: same gradient header and footer.
const noticeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
    <h2>%s</h2>
  </div>
  <div style="padding: 25px; background-color: #f9f9f9;">
    <p>%s</p>
    <p>%s</p>
    <p style="color: #666; font-size: 12px;">%s</p>
  </div>
  <div style="text-align: center; padding: 15px; font-size: 12px; color: #666; background: #e9ecef; border-radius: 0 0 10px 10px;">
    <p><strong>SIGI - Incapacity Management System</strong></p>
    <p>Please do not reply to this message.</p>
  </div>
</div>
</body>
</html>`
