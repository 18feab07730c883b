package extraction

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/training"

	log "github.com/sirupsen/logrus"
)

var (
	ErrRequestExists   = errors.New("extraction request already in flight")
	ErrRequestNotFound = errors.New("extraction request not found")
)

type RequestState string

const (
	StatePending   RequestState = "pending"
	StateCompleted RequestState = "completed"
	StateFailed    RequestState = "failed"
	StateAbandoned RequestState = "abandoned"
)

// Request tracks one in-flight extraction. Only the first transition out of pending wins.
type Request struct {
	ID      string
	Owner   training.Owner
	Variant string

	tracker   *Tracker
	mu        sync.Mutex
	state     RequestState
	stopWatch func() bool
}

func (r *Request) State() RequestState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Complete marks the request done. It returns false if the request was abandoned,
// in which case the result must be discarded.
func (r *Request) Complete() bool {
	return r.finish(StateCompleted)
}

func (r *Request) Fail() bool {
	return r.finish(StateFailed)
}

func (r *Request) Abandon() bool {
	return r.finish(StateAbandoned)
}

func (r *Request) finish(state RequestState) bool {
	r.mu.Lock()
	if r.state != StatePending {
		r.mu.Unlock()
		return false
	}
	r.state = state
	stopWatch := r.stopWatch
	r.mu.Unlock()

	if stopWatch != nil {
		stopWatch()
	}
	r.tracker.remove(r.Owner, r.ID)

	if state == StateAbandoned {
		log.Debugf("extraction request [%s] (%s) abandoned", r.ID, r.Variant)
		if r.tracker.metricsManager != nil {
			r.tracker.metricsManager.CounterAbandonedExtractions.Inc()
		}
	}
	return true
}

// Tracker keeps the pending extraction requests.
type Tracker struct {
	metricsManager *metrics.Manager

	mu       sync.Mutex
	requests map[requestKey]*Request
}

// requestKey scopes client chosen request ids to their owner.
type requestKey struct {
	owner training.Owner
	id    string
}

func NewTracker(metricsManager *metrics.Manager) *Tracker {
	return &Tracker{
		metricsManager: metricsManager,
		requests:       make(map[requestKey]*Request),
	}
}

// Begin registers a pending request. The request is abandoned as soon as ctx is done.
func (t *Tracker) Begin(ctx context.Context, owner training.Owner, id, variant string) (*Request, error) {
	key := requestKey{owner: owner, id: id}
	t.mu.Lock()
	if _, exists := t.requests[key]; exists {
		t.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRequestExists, id)
	}
	req := &Request{
		ID:      id,
		Owner:   owner,
		Variant: variant,
		tracker: t,
		state:   StatePending,
	}
	t.requests[key] = req
	t.mu.Unlock()

	req.mu.Lock()
	req.stopWatch = context.AfterFunc(ctx, func() {
		req.Abandon()
	})
	req.mu.Unlock()

	return req, nil
}

// Abandon abandons the owner's pending request with the given id.
// Requests of other owners are reported as not found.
func (t *Tracker) Abandon(owner training.Owner, id string) error {
	t.mu.Lock()
	req, ok := t.requests[requestKey{owner: owner, id: id}]
	t.mu.Unlock()
	if !ok {
		return ErrRequestNotFound
	}
	if !req.Abandon() {
		return ErrRequestNotFound
	}
	return nil
}

func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

func (t *Tracker) remove(owner training.Owner, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.requests, requestKey{owner: owner, id: id})
}
