package events

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// LoggerEmitter emite eventos de dominio al log estructurado. Es el emisor
// por defecto: los consumidores externos (webhooks, colas) pueden sustituirlo
// sin tocar el motor. Nunca devuelve error; la emisión es best-effort.
type LoggerEmitter struct {
	log zerolog.Logger
}

func NewLoggerEmitter(log zerolog.Logger) *LoggerEmitter {
	return &LoggerEmitter{log: log.With().Str("component", "events").Logger()}
}

func (e *LoggerEmitter) Emit(_ context.Context, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		e.log.Warn().Err(err).Str("event", eventType).Msg("payload de evento no serializable")
		return
	}
	e.log.Info().Str("event", eventType).RawJSON("payload", raw).Msg("evento emitido")
}
