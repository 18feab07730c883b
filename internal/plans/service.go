package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/stargym/internal/live"
	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/training"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=plans_test

const toggleAttempts = 3

type plansRepo interface {
	Create(ctx context.Context, owner training.Owner, plan training.Plan) (*training.Plan, error)
	Update(ctx context.Context, owner training.Owner, plan training.Plan) (*training.Plan, error)
	Delete(ctx context.Context, owner training.Owner, id string) error
	Get(ctx context.Context, owner training.Owner, id string) (*training.Plan, error)
	List(ctx context.Context, owner training.Owner) ([]training.Plan, error)
}

type changeNotifier interface {
	Publish(ctx context.Context, owner training.Owner, collection live.Collection) error
	Signals(ctx context.Context, owner training.Owner, collection live.Collection) (<-chan struct{}, func() error, error)
}

type PlanSnapshot = live.Snapshot[training.Plan]

type Service struct {
	repo           plansRepo
	notifier       changeNotifier
	metricsManager *metrics.Manager
	now            func() time.Time
	newID          func() string
}

func NewService(repo plansRepo, notifier changeNotifier, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		notifier:       notifier,
		metricsManager: metricsManager,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Save creates the plan when it has no id, otherwise replaces the stored document.
// A replace must carry the version it was based on, see ErrStaleWrite.
func (s *Service) Save(ctx context.Context, owner training.Owner, plan training.Plan) (*training.Plan, error) {
	plan.ApplyDefaults()
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if plan.ID == "" {
		return s.create(ctx, owner, plan)
	}

	saved, err := s.repo.Update(ctx, owner, plan)
	if err != nil {
		if errors.Is(err, ErrStaleWrite) && s.metricsManager != nil {
			s.metricsManager.CounterStaleWrites.Inc()
		}
		return nil, err
	}

	s.countSaved("update")
	s.publish(ctx, owner)
	return saved, nil
}

func (s *Service) create(ctx context.Context, owner training.Owner, plan training.Plan) (*training.Plan, error) {
	if err := plan.ValidateCategories(); err != nil {
		return nil, err
	}

	plan.ID = s.newID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC()
	}

	saved, err := s.repo.Create(ctx, owner, plan)
	if err != nil {
		return nil, err
	}

	log.Debugf("plan [%s] created for %s", saved.ID, owner.UserID)
	s.countSaved("create")
	s.publish(ctx, owner)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, owner training.Owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.countSaved("delete")
	s.publish(ctx, owner)
	return nil
}

func (s *Service) Get(ctx context.Context, owner training.Owner, id string) (*training.Plan, error) {
	return s.repo.Get(ctx, owner, id)
}

func (s *Service) List(ctx context.Context, owner training.Owner) ([]training.Plan, error) {
	return s.repo.List(ctx, owner)
}

// Subscribe delivers the full plan list now and after every change, until unsubscribe is called.
func (s *Service) Subscribe(ctx context.Context, owner training.Owner, onChange func(PlanSnapshot)) (func(), error) {
	return live.Watch(ctx, s.notifier, owner, live.CollectionPlans, func(ctx context.Context) ([]training.Plan, error) {
		return s.repo.List(ctx, owner)
	}, onChange)
}

// ToggleWorkoutComplete flips the completion flag of the workouts on date in the given phase.
// The whole plan is read, modified and written back; a concurrent write makes it start over.
func (s *Service) ToggleWorkoutComplete(ctx context.Context, owner training.Owner, planID string, phaseIndex int, date string) (*training.Plan, error) {
	var lastErr error
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		plan, err := s.repo.Get(ctx, owner, planID)
		if err != nil {
			return nil, err
		}

		if err := plan.ToggleWorkout(phaseIndex, date); err != nil {
			return nil, err
		}

		saved, err := s.repo.Update(ctx, owner, *plan)
		if err == nil {
			s.countSaved("toggle")
			s.publish(ctx, owner)
			return saved, nil
		}
		if !errors.Is(err, ErrStaleWrite) {
			return nil, err
		}

		lastErr = err
		if s.metricsManager != nil {
			s.metricsManager.CounterStaleWrites.Inc()
		}
		log.Debugf("toggle workout on plan [%s], attempt %d: %s", planID, attempt+1, err)
	}
	return nil, fmt.Errorf("toggle workout after %d attempts: %w", toggleAttempts, lastErr)
}

func (s *Service) publish(ctx context.Context, owner training.Owner) {
	if err := s.notifier.Publish(context.WithoutCancel(ctx), owner, live.CollectionPlans); err != nil {
		// the write is already stored, subscribers catch up with the next change
		log.Errorf("publish plans change for %s: %s", owner.UserID, err)
	}
}

func (s *Service) countSaved(op string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterPlansSaved.WithLabelValues(op).Inc()
	}
}
