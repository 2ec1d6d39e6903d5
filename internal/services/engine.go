package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rahul4469/coverage-advisor/internal/models"
)

// maxResponseBytes caps how much of an engine response is read.
const maxResponseBytes = 8 << 20

// EngineClient is the HTTP transport shared by the analysis and report
// clients. Each call is exactly one POST; nothing is retried or cached.
type EngineClient struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewEngineClient creates a client for the engine at baseURL.
func NewEngineClient(baseURL string, timeout time.Duration, logger *slog.Logger) *EngineClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngineClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		Logger: logger,
	}
}

// engineReply is the raw outcome of one engine call.
type engineReply struct {
	Status int
	Body   []byte
}

// post sends the snapshot as a JSON object to path. Only transport problems
// are returned as errors; interpreting the body is left to the caller.
func (ec *EngineClient) post(ctx context.Context, op, path string, snapshot models.FormSnapshot) (*engineReply, error) {
	jsonBody, err := json.Marshal(snapshot)
	if err != nil {
		return nil, &models.TransportError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ec.BaseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &models.TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := ec.Client.Do(req)
	if err != nil {
		ec.Logger.Warn("engine call failed", "op", op, "request_id", requestID, "error", err)
		return nil, &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &models.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	ec.Logger.Debug("engine call finished",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return &engineReply{Status: resp.StatusCode, Body: body}, nil
}

// decodeEnvelope decodes a {success, ..., error} response. A body that is
// not a JSON object is a transport failure whatever the status code.
func decodeEnvelope(op string, reply *engineReply, env any) error {
	if len(bytes.TrimSpace(reply.Body)) == 0 {
		return &models.TransportError{Op: op, Err: fmt.Errorf("%w: empty body (status %d)", models.ErrBadResponse, reply.Status)}
	}
	if err := json.Unmarshal(reply.Body, env); err != nil {
		return &models.TransportError{Op: op, Err: fmt.Errorf("%w (status %d): %v", models.ErrBadResponse, reply.Status, err)}
	}
	return nil
}

// rejection builds the error for a success=false envelope.
func rejection(op string, reply *engineReply, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		if reply.Status >= 400 {
			reason = http.StatusText(reply.Status)
		} else {
			reason = "request was not successful"
		}
	}
	return &models.RejectedError{Op: op, Reason: reason}
}
