package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	m "mutate.dev/pkg/mutate/internal/model"
)

const reportExt = ".yaml"

// ReportStore persists campaign reports.
type ReportStore interface {
	// SaveReport writes the report into dir as <campaign-id>.yaml and returns
	// the written path.
	SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error)
	// LoadReport reads a report written by SaveReport.
	LoadReport(ctx context.Context, path m.Path) (m.Report, error)
}

// YAMLReportStore stores reports as YAML documents.
type YAMLReportStore struct{}

// NewReportStore constructs the default ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport implements ReportStore.
func (s *YAMLReportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if report.CampaignID == "" {
		return "", fmt.Errorf("report has no campaign id")
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(string(dir), report.CampaignID+reportExt)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return m.Path(path), nil
}

// LoadReport implements ReportStore.
func (s *YAMLReportStore) LoadReport(ctx context.Context, path m.Path) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	// #nosec G304 - path is a report chosen by the user
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}
