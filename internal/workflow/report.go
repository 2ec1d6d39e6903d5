package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rahul4469/coverage-advisor/internal/models"
)

// ReportContentType is the MIME type of a downloaded report.
const ReportContentType = "text/markdown"

// Reporter produces narrative report text for a form snapshot.
type Reporter interface {
	GenerateReport(ctx context.Context, snapshot models.FormSnapshot) (string, error)
}

// Artifact is a generated report held for download.
type Artifact struct {
	ID          string
	Text        string
	GeneratedAt time.Time
}

// Download is a report packaged as a file. ArtifactID and GeneratedAt
// identify the artifact it was cut from.
type Download struct {
	ArtifactID  string
	GeneratedAt time.Time
	Filename    string
	ContentType string
	Body        []byte
}

// ReportFilename derives the download name from the raw age value.
func ReportFilename(age string) string {
	return "financial_analysis_report_" + age + "yr.md"
}

// ReportController owns the report track: at most one request in flight
// and at most one current artifact.
type ReportController struct {
	reporter Reporter
	now      func() time.Time

	mu       sync.Mutex
	artifact *Artifact
	inFlight bool
	seq      uint64
}

func NewReportController(reporter Reporter) *ReportController {
	return &ReportController{
		reporter: reporter,
		now:      time.Now,
	}
}

// Request generates a report and makes it the current artifact. It fails
// with models.ErrInFlight while another request is running. A failure
// leaves the current artifact as it was.
func (rc *ReportController) Request(ctx context.Context, snapshot models.FormSnapshot) (*Artifact, error) {
	seq, err := rc.acquire()
	if err != nil {
		return nil, err
	}
	defer rc.release()

	text, err := rc.reporter.GenerateReport(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ID:          uuid.NewString(),
		Text:        text,
		GeneratedAt: rc.now(),
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if seq != rc.seq {
		return nil, ErrSuperseded
	}
	rc.artifact = artifact
	return artifact, nil
}

func (rc *ReportController) acquire() (uint64, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.inFlight {
		return 0, models.ErrInFlight
	}
	rc.inFlight = true
	rc.seq++
	return rc.seq, nil
}

func (rc *ReportController) release() {
	rc.mu.Lock()
	rc.inFlight = false
	rc.mu.Unlock()
}

// InFlight reports whether a report request is running.
func (rc *ReportController) InFlight() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.inFlight
}

// Current returns the current artifact, if any.
func (rc *ReportController) Current() (*Artifact, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.artifact, rc.artifact != nil
}

// Download packages the current artifact. The filename comes from the age
// field of snapshot, taken verbatim. An empty report counts as no report.
func (rc *ReportController) Download(snapshot models.FormSnapshot) (*Download, error) {
	artifact, ok := rc.Current()
	if !ok || artifact.Text == "" {
		return nil, models.ErrNoArtifact
	}
	return &Download{
		ArtifactID:  artifact.ID,
		GeneratedAt: artifact.GeneratedAt,
		Filename:    ReportFilename(snapshot.Value(models.FieldAge)),
		ContentType: ReportContentType,
		Body:        []byte(artifact.Text),
	}, nil
}

// Discard drops the current artifact and orphans any running request so
// its result is never stored.
func (rc *ReportController) Discard() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.artifact = nil
	rc.seq++
}
