package visitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionTimeout is how long a visitor stays in the same session after
// their last visit. Only the first visit of a session is counted.
const SessionTimeout = 30 * time.Minute

type visitorService struct {
	repo *repository
}

func NewService(repo *repository) *visitorService {
	return &visitorService{repo}
}

// Visit records a visit from visitorID at now and returns the visitor
// count. An empty or malformed visitorID starts a new visitor, whose id is
// returned.
func (s *visitorService) Visit(ctx context.Context, visitorID string, now time.Time) (int64, string, error) {
	id, err := uuid.Parse(visitorID)
	if err != nil {
		id = uuid.New()
	}
	visitorID = id.String()

	var count int64
	err = s.repo.WithTx(ctx, func(repo *repository) error {
		newSession, err := repo.StartSession(ctx, visitorID, now, now.Add(-SessionTimeout))
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		if newSession {
			count, err = repo.Increment(ctx)
			if err != nil {
				return fmt.Errorf("increment visitor count: %w", err)
			}
			return nil
		}
		// the session goes on from this visit
		err = repo.TouchSession(ctx, visitorID, now)
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		count, err = repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("get visitor count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, "", err
	}
	return count, visitorID, nil
}

func (s *visitorService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("get visitor count: %w", err)
	}
	return count, nil
}

// Cleanup forgets sessions that expired before now.
func (s *visitorService) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteSessionsBefore(ctx, now.Add(-SessionTimeout))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
