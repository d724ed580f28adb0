package exporter

import (
	"rest-recon/internal/config"
	"rest-recon/internal/model"
)

// Exporter writes one summary format for a finished run.
type Exporter interface {
	Format() string
	Export(report *model.Report, cfg *config.Config) error
}
