package services

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rahul4469/coverage-advisor/internal/models"
)

const opAnalyze = "analyze"

// AnalysisClient calls the engine's analysis operation.
type AnalysisClient struct {
	engine *EngineClient
	path   string
}

// NewAnalysisClient creates an AnalysisClient posting to path on engine.
func NewAnalysisClient(engine *EngineClient, path string) *AnalysisClient {
	return &AnalysisClient{engine: engine, path: path}
}

type analysisEnvelope struct {
	Success  bool            `json:"success"`
	Analysis json.RawMessage `json:"analysis"`
	Error    string          `json:"error"`
}

// Analyze submits the snapshot and returns the decoded assessment.
func (c *AnalysisClient) Analyze(ctx context.Context, snapshot models.FormSnapshot) (*models.AnalysisResult, error) {
	reply, err := c.engine.post(ctx, opAnalyze, c.path, snapshot)
	if err != nil {
		return nil, err
	}

	var env analysisEnvelope
	if err := decodeEnvelope(opAnalyze, reply, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, rejection(opAnalyze, reply, env.Error)
	}
	if len(env.Analysis) == 0 {
		return nil, fmt.Errorf("%w: response has no analysis", models.ErrMalformedResult)
	}

	return models.DecodeAnalysisResult(env.Analysis)
}
