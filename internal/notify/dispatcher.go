package notify

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Dispatcher fans a RecordCreated event out to the websocket hub and, when
// configured, to the admin email list. Dispatch is fire-and-forget: it runs
// after the record transaction has committed, never blocks the caller, and
// never reports failure back into the write path.
type Dispatcher struct {
	hub         *RecordHub
	sender      *EmailSender
	adminEmails []string
}

func NewDispatcher(hub *RecordHub, sender *EmailSender, adminEmails []string) *Dispatcher {
	return &Dispatcher{hub: hub, sender: sender, adminEmails: adminEmails}
}

// Dispatch delivers the event asynchronously. Failures are logged locally.
func (d *Dispatcher) Dispatch(ev RecordCreated) {
	go d.deliver(ev)
}

func (d *Dispatcher) deliver(ev RecordCreated) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("record_id", ev.RecordID).Errorf("Notification dispatch panicked: %v", r)
		}
	}()

	if d.hub != nil {
		d.hub.Publish(ev)
	}

	if d.sender == nil || len(d.adminEmails) == 0 {
		logrus.WithFields(logrus.Fields{
			"record_id":   ev.RecordID,
			"unit_number": ev.UnitNumber,
		}).Info("New record created; email transport not configured, skipping mail.")
		return
	}

	subject := fmt.Sprintf("New maintenance record - Unit %s", ev.UnitNumber)
	body := fmt.Sprintf(
		"<p>A new maintenance record was submitted by <b>%s</b> for unit <b>%s</b>.</p><p>Estimated time: %d minutes</p>",
		ev.DriverName, ev.UnitNumber, ev.EstimatedTimeMinutes,
	)
	if err := d.sender.Send(d.adminEmails, subject, body); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"record_id":   ev.RecordID,
			"unit_number": ev.UnitNumber,
		}).Error("Failed to send record notification email.")
		return
	}
	logrus.WithFields(logrus.Fields{
		"record_id":  ev.RecordID,
		"recipients": len(d.adminEmails),
	}).Info("Record notification email sent.")
}
