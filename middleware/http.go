package middleware

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reoring/schemadoc"
	"github.com/reoring/schemadoc/source"
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 1 << 20

// Config configures Validate.
type Config struct {
	// Options are applied to every document before its fields are cast.
	Options schemadoc.Options
	// Path selects a sub-object of the body (gjson syntax); empty means the
	// whole body.
	Path string
	// MaxBodyBytes limits the request body size.
	MaxBodyBytes int64
	// Metrics is optional.
	Metrics *Metrics
	Logger  *zerolog.Logger
}

// Validate returns net/http middleware that casts the JSON request body into
// a document of type dt and validates it. Valid documents are attached to the
// request context (see DocumentFromContext). Otherwise the request is
// answered with:
//   - 400 when the body is not a JSON object or nests deeper than MaxDepth
//   - 422 with {"error": ...} when a value does not fit its field type
//   - 422 with ErrorPayload when rules fail
func Validate(dt *schemadoc.DocumentType, cfg Config) func(http.Handler) http.Handler {
	limit := cfg.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	name := dt.Name()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				cfg.Metrics.observe(name, OutcomeBadRequest)
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			payload, err := source.Payload(body, cfg.Path)
			if err != nil {
				cfg.Metrics.observe(name, OutcomeBadRequest)
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}

			doc, err := dt.NewWith(cfg.Options, payload)
			if errors.Is(err, schemadoc.ErrMaxDepth) {
				cfg.Metrics.observe(name, OutcomeBadRequest)
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			if err != nil {
				if !errors.Is(err, schemadoc.ErrFieldType) {
					logger.Error().Err(err).Str("type", name).Msg("document cast failed")
					cfg.Metrics.observe(name, OutcomeError)
					writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
					return
				}
				cfg.Metrics.observe(name, OutcomeInvalid)
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
				return
			}

			fvs, err := doc.FailedValidations()
			if err != nil {
				logger.Error().Err(err).Str("type", name).Msg("validation failed to run")
				cfg.Metrics.observe(name, OutcomeError)
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
				return
			}
			if len(fvs) > 0 {
				logger.Debug().Str("type", name).Int("failures", len(fvs)).Msg("request body rejected")
				cfg.Metrics.observe(name, OutcomeInvalid)
				writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(fvs))
				return
			}

			cfg.Metrics.observe(name, OutcomeValid)
			next.ServeHTTP(w, r.WithContext(ContextWithDocument(r.Context(), doc)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
