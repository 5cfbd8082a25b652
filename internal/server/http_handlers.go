package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"resumatch/internal/common"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// evaluateHandler scores one résumé against one job description
func (s *Server) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	var req EvaluateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := common.RequireText("resumeText", req.ResumeText); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := common.RequireText("jobDescription", req.JobDescription); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("request.job_length", len(req.JobDescription)),
	)

	result, err := s.Pipeline.Evaluate(ctx, req.ResumeText, req.JobDescription)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.Logger.Info("Evaluation served",
		"request_id", r.Header.Get(requestIDHeader),
		"evaluation_id", result.EvaluationID,
		"final_score", result.FinalScore,
		"degraded", result.SkillExtractionError != "")
	writeJSON(w, http.StatusOK, result)
}

// skillsHandler extracts the required skills of a job description
func (s *Server) skillsHandler(w http.ResponseWriter, r *http.Request) {
	var req SkillsRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := common.RequireText("jobDescription", req.JobDescription); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	skills, err := s.Pipeline.ExtractSkills(r.Context(), req.JobDescription)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &types.SkillsResult{Skills: skills})
}

// healthHandler reports service status, models and breaker health
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"service":   "resumatch",
		"version":   s.Version,
		"ai_models": s.Pipeline.Models(),
	}

	status := http.StatusOK
	if !s.Pipeline.Healthy() {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	if s.certs != nil {
		certStatus := s.certs.status()
		response["certificates"] = certStatus
		if healthy, _ := certStatus["healthy"].(bool); !healthy {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, response)
}

// statsHandler provides server statistics including breaker and rate limiting state
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"service":          "resumatch",
		"version":          s.Version,
		"uptime_seconds":   int64(time.Since(s.startedAt).Seconds()),
		"circuit_breakers": s.Pipeline.Stats(),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
			"tls_mode":               s.TLSConfig.Mode,
		},
	}

	if s.RateLimiter != nil {
		stats := s.RateLimiter.GetStats()
		stats["by_ip"] = s.RateLimit.ByIP
		stats["by_api_key"] = s.RateLimit.ByAPIKey
		response["rate_limiting"] = stats
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest decodes a JSON request body into v
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "content-type must be application/json", nil)
	}
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err).
				WithContext("limit", maxBytesErr.Limit)
		}
		return errors.NewIOError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}
	return nil
}

// statusForError maps an error code to an HTTP status
func statusForError(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	switch appErr.Code {
	case errors.ErrCodeEmptyInput, errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case errors.ErrCodeEmbeddingFailed, errors.ErrCodeAIServiceFailed, errors.ErrCodeSkillExtractionFailed:
		return http.StatusBadGateway
	case errors.ErrCodeAITimeout, errors.ErrCodeNetworkTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError logs err and writes it as an ErrorResponse
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	trace.SpanFromContext(r.Context()).RecordError(err)

	code := ""
	message := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		code = appErr.Code
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed",
			"endpoint", r.URL.Path,
			"status", status,
			"request_id", r.Header.Get(requestIDHeader))
	}

	writeErrorResponse(w, http.StatusText(status), message, code, status)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message, code string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
