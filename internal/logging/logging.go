// Package logging builds the zerolog logger and the log-backed submission
// sink.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsession/internal/config"
	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/session"
)

// New builds a logger writing to out (stdout when nil) at the configured
// level and format.
func New(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

type requestIDKey struct{}

// WithRequestID stores the request correlation id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id stored on ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// SubmissionSink returns a session sink that writes one info line per valid
// submit. Fields listed in secret are masked.
func SubmissionSink(logger zerolog.Logger, form model.FormModel) session.Sink {
	secret := make(map[string]struct{})
	for _, field := range form.Fields {
		if field.Type == model.FieldTypePassword {
			secret[field.Name] = struct{}{}
		}
	}

	return func(ctx context.Context, values model.Values) {
		dict := zerolog.Dict()
		for _, name := range values.Keys() {
			if _, ok := secret[name]; ok {
				dict = dict.Str(name, "********")
				continue
			}
			switch typed := values[name].(type) {
			case bool:
				dict = dict.Bool(name, typed)
			case []string:
				dict = dict.Strs(name, typed)
			default:
				dict = dict.Str(name, values.String(name))
			}
		}

		event := logger.Info().Str("form", form.ID)
		if id := RequestID(ctx); id != "" {
			event = event.Str("request_id", id)
		}
		event.Dict("values", dict).Msg("form submitted")
	}
}
