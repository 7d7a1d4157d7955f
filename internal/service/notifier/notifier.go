// Package notifier sends patient-facing email. Delivery failures are
// logged and never fail the operation that triggered them.
package notifier

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/centek/clinic-api/internal/config"
	"github.com/centek/clinic-api/internal/model"
)

// Notifier delivers visit notifications.
type Notifier interface {
	VisitScheduled(patient *model.Patient, doctor *model.User, at time.Time)
}

type mailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// New builds an SMTP notifier, or a no-op one when SMTP is not
// configured.
func New(cfg config.SMTPConfig) Notifier {
	if !cfg.Enabled() {
		return noopNotifier{}
	}
	return &mailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (n *mailNotifier) VisitScheduled(patient *model.Patient, doctor *model.User, at time.Time) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", patient.Email)
	msg.SetHeader("Subject", "Your visit has been scheduled")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear %s %s,\n\nDr. %s %s has scheduled your visit for %s.\n\nCentek Clinic",
		patient.FirstName, patient.LastName,
		doctor.FirstName, doctor.LastName,
		at.Format("02 Jan 2006 15:04"),
	))

	if err := n.dialer.DialAndSend(msg); err != nil {
		log.Warn().Err(err).Str("to", patient.Email).Msg("failed to send visit notification")
		return
	}
	log.Debug().Str("to", patient.Email).Msg("visit notification sent")
}

type noopNotifier struct{}

func (noopNotifier) VisitScheduled(*model.Patient, *model.User, time.Time) {}
