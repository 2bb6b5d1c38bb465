package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitalred/vitalred/internal/triage"
)

// ErrInvalidInput marks errors caused by the caller's request, so handlers
// can answer 400 instead of 500.
var ErrInvalidInput = errors.New("invalid input")

// Notifier alerts the on-call coordinators about a case. The service calls
// it only for high-priority verdicts; delivery failures are logged, never
// surfaced to the ingestion caller.
type Notifier interface {
	NotifyUrgentCase(ctx context.Context, c *Case) error
}

type Service struct {
	repo     Repository
	engine   *triage.Engine
	notifier Notifier
	log      zerolog.Logger
}

func NewService(repo Repository, engine *triage.Engine, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{repo: repo, engine: engine, notifier: notifier, log: log}
}

// Classify runs the engine without persisting anything.
func (s *Service) Classify(text string, meta *triage.Metadata) *triage.Result {
	return s.engine.Classify(text, meta)
}

// Ingest classifies a referral, persists the case, and alerts the on-call
// channel when the verdict is high priority.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*Case, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	var meta *triage.Metadata
	if req.SenderDomain != "" || req.SenderInstitution != "" {
		meta = &triage.Metadata{
			SenderDomain: req.SenderDomain,
			Institution:  req.SenderInstitution,
		}
	}

	res := s.engine.Classify(req.Text, meta)
	c := fromResult(req, res)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create referral case: %w", err)
	}

	if c.PriorityLevel == string(triage.PriorityHigh) && s.notifier != nil {
		if err := s.notifier.NotifyUrgentCase(ctx, c); err != nil {
			s.log.Error().Err(err).Str("case_id", c.ID.String()).Msg("urgent case notification failed")
		}
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByLevel(ctx context.Context, level string, limit, offset int) ([]*Case, int, error) {
	switch level {
	case string(triage.PriorityHigh), string(triage.PriorityMedium), string(triage.PriorityLow):
	default:
		return nil, 0, fmt.Errorf("%w: unknown priority level %q", ErrInvalidInput, level)
	}
	return s.repo.ListByLevel(ctx, level, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Case, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

// Review applies the board's decision: status change, optional manual
// priority override, optional note.
func (s *Service) Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*Case, error) {
	switch req.Status {
	case StatusReviewed, StatusAccepted, StatusRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Status = req.Status
	if req.PriorityLevel != nil {
		switch *req.PriorityLevel {
		case string(triage.PriorityHigh), string(triage.PriorityMedium), string(triage.PriorityLow):
			c.PriorityLevel = *req.PriorityLevel
		default:
			return nil, fmt.Errorf("%w: unknown priority level %q", ErrInvalidInput, *req.PriorityLevel)
		}
	}
	if req.ReviewNote != nil {
		c.ReviewNote = req.ReviewNote
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update referral case: %w", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns the queue size per priority level.
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByLevel(ctx)
}
