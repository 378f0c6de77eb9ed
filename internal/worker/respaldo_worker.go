package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"wareinc/internal/dto"

	"github.com/rs/zerolog/log"
)

// RespaldoJobPayload requests a period snapshot in the background.
// NotificarA, when set, receives the file by email.
type RespaldoJobPayload struct {
	Nombre     string `json:"nombre,omitempty"`
	NotificarA string `json:"notificar_a,omitempty"`
}

// Respaldador is satisfied by service.RespaldoService.
type Respaldador interface {
	GuardarPeriodo(ctx context.Context, nombre string) (*dto.RespaldoResponse, error)
}

type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type RespaldoWorker struct {
	respaldos Respaldador
	emails    EmailEnqueuer
}

func NewRespaldoWorker(respaldos Respaldador, emails EmailEnqueuer) *RespaldoWorker {
	return &RespaldoWorker{respaldos: respaldos, emails: emails}
}

func (w *RespaldoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RespaldoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: respaldo payload: %v", ErrPermanent, err)
	}

	r, err := w.respaldos.GuardarPeriodo(ctx, payload.Nombre)
	if err != nil {
		return fmt.Errorf("respaldo_worker: %w", err)
	}
	log.Info().Str("archivo", r.Nombre).Int64("bytes", r.Tamano).Msg("respaldo_worker: snapshot written")

	if payload.NotificarA == "" || w.emails == nil {
		return nil
	}
	// The snapshot is already on disk; a failed notification must not
	// trigger a retry that would write a second file.
	if err := w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail:        payload.NotificarA,
		Subject:        "Respaldo " + r.Nombre,
		Body:           fmt.Sprintf("Se generó el respaldo %s (%d bytes).", r.Nombre, r.Tamano),
		AttachmentPath: r.Ruta,
	}); err != nil {
		log.Warn().Err(err).Str("archivo", r.Nombre).Msg("respaldo_worker: notification not enqueued")
	}
	return nil
}
