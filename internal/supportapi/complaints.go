package supportapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/supportflow/internal/severity"
)

const maxBodyBytes = 64 << 10

type complaintRequest struct {
	Text *string `json:"text"`
}

var (
	errMissingText = errors.New("text is required")
	errBodyTooBig  = errors.New("body too large")
)

// decodeComplaint reads {"text": ...}. The field must be present but may be
// empty; empty complaints get the canned acknowledgment downstream.
func decodeComplaint(w http.ResponseWriter, r *http.Request) (string, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req complaintRequest
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", errBodyTooBig
		}
		return "", err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", errors.New("trailing data after JSON body")
	}
	if req.Text == nil {
		return "", errMissingText
	}
	return *req.Text, nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooBig) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "body too large"})
		return
	}
	if errors.Is(err, errMissingText) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
}

func (a *API) handleSeverity(w http.ResponseWriter, r *http.Request) {
	text, err := decodeComplaint(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := a.svc.Classify(r.Context(), text)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to classify complaint")
		if errors.Is(err, severity.ErrNotTrained) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "classifier unavailable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.Int("supportflow.severity.score", res.Score),
		attribute.String("supportflow.severity.priority", res.Priority.String()),
	)

	writeJSON(w, http.StatusOK, res)
}

func (a *API) handleResolution(w http.ResponseWriter, r *http.Request) {
	text, err := decodeComplaint(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	d, err := a.svc.Suggest(r.Context(), text)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to draft resolution")
		if errors.Is(err, severity.ErrNotTrained) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "classifier unavailable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("supportflow.resolution.id", d.ID),
		attribute.String("supportflow.resolution.source", string(d.Source)),
	)

	writeJSON(w, http.StatusOK, d)
}
