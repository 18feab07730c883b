package records

import (
	"context"
	"time"

	"github.com/2beens/stargym/internal/live"
	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/training"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=records_test

type recordsRepo interface {
	Create(ctx context.Context, owner training.Owner, record training.PersonalRecord) error
	Merge(ctx context.Context, owner training.Owner, record training.PersonalRecord) (*training.PersonalRecord, error)
	Delete(ctx context.Context, owner training.Owner, id string) error
	List(ctx context.Context, owner training.Owner) ([]training.PersonalRecord, error)
}

type changeNotifier interface {
	Publish(ctx context.Context, owner training.Owner, collection live.Collection) error
	Signals(ctx context.Context, owner training.Owner, collection live.Collection) (<-chan struct{}, func() error, error)
}

type RecordSnapshot = live.Snapshot[training.PersonalRecord]

type Service struct {
	repo           recordsRepo
	notifier       changeNotifier
	metricsManager *metrics.Manager
	now            func() time.Time
	newID          func() string
}

func NewService(repo recordsRepo, notifier changeNotifier, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		notifier:       notifier,
		metricsManager: metricsManager,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Save creates the record when it has no id. Otherwise only its non-empty
// fields are merged into the stored record.
func (s *Service) Save(ctx context.Context, owner training.Owner, record training.PersonalRecord) (*training.PersonalRecord, error) {
	var (
		saved *training.PersonalRecord
		err   error
	)
	if record.ID == "" {
		saved, err = s.create(ctx, owner, record)
	} else {
		if err := record.ValidatePatch(); err != nil {
			return nil, err
		}
		saved, err = s.repo.Merge(ctx, owner, record)
	}
	if err != nil {
		return nil, err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterRecordsSaved.Inc()
	}
	s.publish(ctx, owner)
	return saved, nil
}

func (s *Service) create(ctx context.Context, owner training.Owner, record training.PersonalRecord) (*training.PersonalRecord, error) {
	record.ApplyDefaults(s.now())
	if err := record.Validate(); err != nil {
		return nil, err
	}

	record.ID = s.newID()
	if err := s.repo.Create(ctx, owner, record); err != nil {
		return nil, err
	}

	log.Debugf("personal record [%s] created for %s", record.ID, owner.UserID)
	return &record, nil
}

func (s *Service) Delete(ctx context.Context, owner training.Owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.publish(ctx, owner)
	return nil
}

func (s *Service) List(ctx context.Context, owner training.Owner) ([]training.PersonalRecord, error) {
	return s.repo.List(ctx, owner)
}

// Subscribe delivers all records now and after every change, until unsubscribe is called.
func (s *Service) Subscribe(ctx context.Context, owner training.Owner, onChange func(RecordSnapshot)) (func(), error) {
	return live.Watch(ctx, s.notifier, owner, live.CollectionRecords, func(ctx context.Context) ([]training.PersonalRecord, error) {
		return s.repo.List(ctx, owner)
	}, onChange)
}

func (s *Service) publish(ctx context.Context, owner training.Owner) {
	if err := s.notifier.Publish(context.WithoutCancel(ctx), owner, live.CollectionRecords); err != nil {
		log.Errorf("publish records change for %s: %s", owner.UserID, err)
	}
}
