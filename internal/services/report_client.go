package services

import (
	"context"
	"fmt"

	"github.com/rahul4469/coverage-advisor/internal/models"
)

const opReport = "generate report"

// ReportClient calls the engine's narrative report operation.
type ReportClient struct {
	engine *EngineClient
	path   string
}

// NewReportClient creates a ReportClient posting to path on engine.
func NewReportClient(engine *EngineClient, path string) *ReportClient {
	return &ReportClient{engine: engine, path: path}
}

type reportEnvelope struct {
	Success bool    `json:"success"`
	Report  *string `json:"report"`
	Error   string  `json:"error"`
}

// GenerateReport returns the markdown report for the snapshot.
func (c *ReportClient) GenerateReport(ctx context.Context, snapshot models.FormSnapshot) (string, error) {
	reply, err := c.engine.post(ctx, opReport, c.path, snapshot)
	if err != nil {
		return "", err
	}

	var env reportEnvelope
	if err := decodeEnvelope(opReport, reply, &env); err != nil {
		return "", err
	}
	if !env.Success {
		return "", rejection(opReport, reply, env.Error)
	}
	if env.Report == nil {
		return "", fmt.Errorf("%w: response has no report", models.ErrMalformedResult)
	}
	return *env.Report, nil
}
