package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docket/internal/config"
)

// Service executes documentation builds.
type Service interface {
	// Run executes a complete build: resolve source, scan, render, index.
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs required to execute a build.
type Request struct {
	// Config is the effective configuration, flags already applied.
	Config *config.Config
}

// Result contains the outcome of a build.
type Result struct {
	Status  Status
	BuildID string

	// SourcePath is the directory the site was built from.
	SourcePath string
	OutputPath string

	Pages         int
	Bales         int
	Assets        int
	SearchEntries int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}
