package mail_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/mail"
)

func sampleRecord() incapacity.Record {
	return incapacity.Record{
		ID:          "inc-1",
		SubjectID:   "emp-1",
		PeriodStart: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Status:      incapacity.StatusApproved,
	}
}

func TestRegistrationNotice(t *testing.T) {
	msg := mail.RegistrationNotice("jane@corp.test", "Jane Roe", sampleRecord())

	assert.Equal(t, []string{"jane@corp.test"}, msg.To)
	assert.Equal(t, "Your incapacity was registered", msg.Subject)
	assert.Contains(t, msg.Text, "Jane Roe")
	assert.Contains(t, msg.Text, "15/01/2025 to 20/01/2025")
	assert.Contains(t, msg.Text, "inc-1")
	assert.Contains(t, msg.HTML, "Incapacity Registered")
	assert.Contains(t, msg.HTML, "<strong>Jane Roe</strong>")
}

func TestStatusChangeNotice(t *testing.T) {
	msg := mail.StatusChangeNotice("jane@corp.test", "Jane Roe", sampleRecord(), incapacity.StatusInReview)

	assert.Equal(t, "Incapacity status update: APPROVED", msg.Subject)
	assert.Contains(t, msg.Text, "from IN_REVIEW to APPROVED")
	assert.Contains(t, msg.HTML, "Incapacity Status Update")
	assert.Contains(t, msg.HTML, "<strong>APPROVED</strong>")
}
