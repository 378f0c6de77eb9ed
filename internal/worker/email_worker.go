package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"wareinc/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail        string `json:"to_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path,omitempty"`
}

// MailSender is satisfied by *infra.Mailer.
type MailSender interface {
	Send(to, subject, body, attachmentPath string) error
}

// EmailWorker delivers stock alerts and backup notifications through the
// circuit breaker, so a dead SMTP server fails fast.
type EmailWorker struct {
	mailer MailSender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer MailSender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: email payload: %v", ErrPermanent, err)
	}
	if payload.ToEmail == "" {
		log.Warn().Str("subject", payload.Subject).Msg("email_worker: empty to_email, skipping")
		return nil
	}

	send := func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, payload.AttachmentPath)
	}
	var err error
	if w.cb != nil {
		err = w.cb.Execute(send)
	} else {
		err = send()
	}
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
