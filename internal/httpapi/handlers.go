package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pricofy/chunked-translator/internal/domain"
	"github.com/pricofy/chunked-translator/internal/logger"
	"github.com/pricofy/chunked-translator/internal/orchestrator"
	"github.com/pricofy/chunked-translator/internal/router"
)

// maxBodyBytes bounds request bodies; the text length gate runs after decoding
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type languagesBody struct {
	Scheme    string     `json:"scheme"`
	Languages []language `json:"languages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	codes := s.router.SupportedLanguages()
	body := languagesBody{
		Scheme:    string(s.router.Scheme()),
		Languages: make([]language, 0, len(codes)),
	}
	for _, code := range codes {
		body.Languages = append(body.Languages, language{Code: code, Name: router.Name(code)})
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get(requestIDHeader)

	var req domain.TranslationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), RequestID: requestID})
		return
	}

	resp, err := s.translator.Translate(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if orchestrator.IsClientError(err) {
			writeJSON(w, status, errorBody{Error: err.Error(), RequestID: requestID})
			return
		}

		logger.From(r.Context()).Error().Err(err).Int("status", status).Msg("translation failed, returning fallback")
		fb := orchestrator.FallbackResponse(req, err)
		fb.RequestID = requestID
		writeJSON(w, status, fb)
		return
	}

	resp.RequestID = requestID
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps request-level errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidRequest), errors.Is(err, orchestrator.ErrTextTooLong):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrUnsupportedLanguage), errors.Is(err, orchestrator.ErrNoSegments):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes one JSON object, rejecting unknown fields and trailing data
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: unexpected trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
