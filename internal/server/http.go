package server

import (
	"context"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// EvaluateRequest represents the request body for the evaluate endpoint
type EvaluateRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// SkillsRequest represents the request body for the skills endpoint
type SkillsRequest struct {
	JobDescription string `json:"jobDescription"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Pipeline is the evaluation pipeline served over HTTP. scoring.Pipeline is
// the production implementation.
type Pipeline interface {
	Evaluate(ctx context.Context, resumeText, jobDescription string) (*types.EvaluationResult, error)
	ExtractSkills(ctx context.Context, jobDescription string) (types.SkillList, error)
	Healthy() bool
	Models() []ai.ModelInfo
	Stats() map[string]any
}

// Recorder receives server-side measurements
type Recorder interface {
	RecordRateLimitHit(ctx context.Context, keyType string)
	RecordCertificateReload(ctx context.Context, success bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordRateLimitHit(context.Context, string)    {}
func (nopRecorder) RecordCertificateReload(context.Context, bool) {}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	TLSConfig config.TLSConfig

	// Valid API keys; empty disables authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   config.RateLimitConfig
	RateLimiter *RateLimiter

	Pipeline Pipeline
	Recorder Recorder
	Logger   *errors.Logger

	certs     *certStore
	startedAt time.Time
}

// NewServer creates a Server from the server section of the configuration
func NewServer(cfg config.ServerConfig, version string, pipeline Pipeline, recorder Recorder, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		TLSConfig:      cfg.TLS,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Pipeline:       pipeline,
		Recorder:       recorder,
		Logger:         logger,
		startedAt:      time.Now(),
	}
}
