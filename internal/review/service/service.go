// Package service orchestrates the submission pipeline: credential decode,
// identity enrichment, validation, assembly, persistence, and notification.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"guardpost/internal/identity"
	"guardpost/internal/platform/metrics"
	"guardpost/internal/review/models"
	"guardpost/internal/review/store"
	dErrors "guardpost/pkg/domain-errors"
)

// Enricher resolves directory display data for a reviewer id. It must not
// fail the caller; absence of enrichment degrades to a minimal identity.
type Enricher interface {
	Enrich(ctx context.Context, reviewerID string) identity.Identity
}

// Notifier announces a persisted record on the side channel. Failures stay
// inside the notifier.
type Notifier interface {
	Notify(ctx context.Context, e *models.Evaluation)
}

const appendTimeout = 10 * time.Second

// Service implements the evaluation intake pipeline.
type Service struct {
	store    store.EvaluationStore // nil when persistence is not configured
	enricher Enricher
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() uuid.UUID
}

// Option configures the Service.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the submission timestamp source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides record id generation (for tests).
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// New constructs the intake service. A nil store disables persistence:
// writes are skipped and reads return nothing, but submissions still
// validate and notify.
func New(st store.EvaluationStore, enricher Enricher, notifier Notifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		enricher: enricher,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one submission through the pipeline. Any failure before
// assembly aborts with no side effects. Persistence failure is surfaced as a
// storage error; notification runs independently and its outcome is never
// visible to the caller.
func (s *Service) Submit(ctx context.Context, credential string, form url.Values) (*models.Evaluation, error) {
	decoded, err := identity.DecodeCredential(credential)
	if err != nil {
		s.countFailure("bad_credential")
		return nil, err
	}

	reviewer := s.resolveReviewer(ctx, decoded)

	sub, err := models.ParseSubmission(form)
	if err != nil {
		s.countFailure("validation")
		return nil, err
	}

	e := models.NewEvaluation(reviewer, sub, s.newID(), s.now())

	// Persist and notify are independent; a failure on either side must not
	// affect the other. The notifier gets a detached context because the
	// record summary is worth posting even when persistence failed, and its
	// own timeout bounds the call.
	notifyCtx := context.WithoutCancel(ctx)
	go s.notifier.Notify(notifyCtx, &e)

	if err := s.persist(ctx, &e); err != nil {
		s.countFailure("storage")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EvaluationsSubmitted.Inc()
	}
	s.logger.InfoContext(ctx, "evaluation submitted",
		"evaluation_id", e.ID.String(),
		"reviewer_id", e.Reviewer.ID,
		"subject", e.SubjectName,
	)
	return &e, nil
}

// resolveReviewer layers directory data over the decoded credential.
// Enrichment is additive only: when the directory is unreachable or knows
// nothing, whatever the credential carried stands.
func (s *Service) resolveReviewer(ctx context.Context, decoded identity.Identity) identity.Identity {
	enriched := s.enricher.Enrich(ctx, decoded.ID)
	if enriched.Username == "" {
		return decoded
	}
	return enriched
}

// persist appends the record. The context is detached from the inbound
// request so a client abort cannot lose a record that was worth assembling.
func (s *Service) persist(ctx context.Context, e *models.Evaluation) error {
	if s.store == nil {
		s.logger.WarnContext(ctx, "persistence not configured, evaluation not stored",
			"evaluation_id", e.ID.String(),
		)
		return nil
	}

	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
	defer cancel()

	if err := s.store.Append(appendCtx, e); err != nil {
		s.logger.ErrorContext(ctx, "evaluation append failed",
			"evaluation_id", e.ID.String(),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeStorage, "evaluation could not be stored")
	}
	return nil
}

// List returns every persisted record in storage iteration order. With
// persistence not configured it returns an empty result rather than failing.
func (s *Service) List(ctx context.Context) ([]models.Evaluation, error) {
	if s.store == nil {
		return []models.Evaluation{}, nil
	}
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "evaluations could not be read")
	}
	if out == nil {
		out = []models.Evaluation{}
	}
	return out, nil
}

func (s *Service) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.SubmissionFailures.WithLabelValues(reason).Inc()
	}
}
