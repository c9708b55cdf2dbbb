package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	modelv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/model/v1"
)

// Repository writes evaluation reports as metrics_v<version>.json.
type Repository struct {
	dir string
}

// NewRepository creates a report repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Ensure Repository implements ReportRepository interface
var _ modelv1.ReportRepository = (*Repository)(nil)

// Path returns the report file of a dataset version.
func (r *Repository) Path(version string) string {
	return filepath.Join(r.dir, fmt.Sprintf("metrics_v%s.json", version))
}

// Save writes report and returns the file it was written to.
func (r *Repository) Save(ctx context.Context, report *modelv1.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := r.Path(report.Version)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
