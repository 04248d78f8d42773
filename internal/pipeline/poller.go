package pipeline

import (
	"context"
	"fmt"
	"time"

	"brandforge/internal/domain"
	"brandforge/internal/infra"
	"brandforge/internal/providers/genai"
)

// OperationService is the slice of the genai client the poller consumes.
type OperationService interface {
	Operation(ctx context.Context, name string) (*genai.Operation, error)
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 60
)

// PollerOptions configures a JobPoller. Zero values take the defaults of a
// 5 second interval and a 60-poll ceiling (~5 minutes).
type PollerOptions struct {
	Service  OperationService
	Interval time.Duration
	MaxPolls int
	Logger   *infra.Logger
}

// JobPoller drives a long-running video operation to a terminal state:
// completed, timed out, or failed. Timeout and failure stay distinct because
// they imply different recovery — a timed-out job may still be running
// server-side and can be waited on again, a failed one must be resubmitted.
type JobPoller struct {
	svc      OperationService
	interval time.Duration
	maxPolls int
	logger   *infra.Logger
}

// NewJobPoller constructs a JobPoller.
func NewJobPoller(opts PollerOptions) *JobPoller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxPolls := opts.MaxPolls
	if maxPolls <= 0 {
		maxPolls = defaultMaxPolls
	}
	return &JobPoller{svc: opts.Service, interval: interval, maxPolls: maxPolls, logger: opts.Logger}
}

// Await polls the operation until it reports completion, the poll ceiling is
// reached, or ctx is cancelled. On completion it returns the result URI; a
// completed operation without one is domain.ErrJobFailed, not a silent
// success. Cancellation stops local polling only — the remote job keeps
// running, and the handle must not be reused afterwards.
func (p *JobPoller) Await(ctx context.Context, op *genai.Operation) (string, error) {
	if op == nil {
		return "", fmt.Errorf("%w: nil operation handle", domain.ErrJobFailed)
	}

	for poll := 0; ; poll++ {
		if op.Done {
			return terminal(op)
		}
		if poll >= p.maxPolls {
			if p.logger != nil {
				p.logger.Warn().Str("operation", op.Name).Int("polls", poll).Msg("pipeline: video job timed out locally")
			}
			return "", domain.ErrJobTimeout
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.interval):
		}

		refreshed, err := p.svc.Operation(ctx, op.Name)
		if err != nil {
			// A poll that fails to reach the service is not a job failure;
			// keep polling until the ceiling.
			if p.logger != nil {
				p.logger.Warn().Err(err).Str("operation", op.Name).Msg("pipeline: poll failed")
			}
			continue
		}
		op = refreshed
	}
}

func terminal(op *genai.Operation) (string, error) {
	if op.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrJobFailed, op.Error.Message)
	}
	uri := op.ResultURI()
	if uri == "" {
		return "", fmt.Errorf("%w: completed without a result uri", domain.ErrJobFailed)
	}
	return uri, nil
}
