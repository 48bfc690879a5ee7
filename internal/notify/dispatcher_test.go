package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatchWithoutTransportsIsNoOp(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	assert.NotPanics(t, func() {
		d.Dispatch(RecordCreated{RecordID: 1, UnitNumber: "T-100", DriverName: "Driver"})
	})
	// give the delivery goroutine a beat to run
	time.Sleep(20 * time.Millisecond)
}

func TestPublishNeverBlocks(t *testing.T) {
	// Unbuffered channel with no running drain goroutine: every Publish must
	// take the drop path instead of blocking the caller.
	h := &RecordHub{broadcast: make(chan RecordCreated)}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.Publish(RecordCreated{RecordID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full broadcast channel")
	}
}

func TestEmailSenderFromEnvUnconfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_USER", "")
	t.Setenv("SMTP_PASS", "")
	assert.Nil(t, EmailSenderFromEnv())
}

func TestEmailSenderFromEnvDefaults(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "")

	s := EmailSenderFromEnv()
	assert.NotNil(t, s)
	assert.Equal(t, 587, s.cfg.Port)
	assert.Equal(t, "noreply@fleet.local", s.cfg.FromEmail)
}

func TestAdminEmailsFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " ops@example.com, fleet@example.com ,,")
	assert.Equal(t, []string{"ops@example.com", "fleet@example.com"}, AdminEmailsFromEnv())

	t.Setenv("ADMIN_EMAILS", "")
	assert.Empty(t, AdminEmailsFromEnv())
}
