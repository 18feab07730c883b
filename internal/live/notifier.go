package live

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/training"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

type Collection string

const (
	CollectionPlans   Collection = "plans"
	CollectionRecords Collection = "prs"
)

const defaultBufferSize = 16

// Channel is the pub/sub channel carrying change signals for one owner's collection.
func Channel(owner training.Owner, collection Collection) string {
	return fmt.Sprintf("stargym:%s:%s:%s", owner.AppID, owner.UserID, collection)
}

// Notifier fans out collection change signals over redis pub/sub, so every
// service instance can refresh its subscribers after a write on any instance.
type Notifier struct {
	rdb            *redis.Client
	metricsManager *metrics.Manager
	bufferSize     int
	now            func() time.Time
}

func NewNotifier(rdb *redis.Client, metricsManager *metrics.Manager, bufferSize int) *Notifier {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Notifier{
		rdb:            rdb,
		metricsManager: metricsManager,
		bufferSize:     bufferSize,
		now:            time.Now,
	}
}

// Publish signals that the owner's collection changed.
func (n *Notifier) Publish(ctx context.Context, owner training.Owner, collection Collection) error {
	payload := strconv.FormatInt(n.now().UnixNano(), 10)
	if err := n.rdb.Publish(ctx, Channel(owner, collection), payload).Err(); err != nil {
		return fmt.Errorf("publish %s change: %w", collection, err)
	}
	return nil
}

// Signals subscribes to change signals. Signals arriving while the consumer is busy
// are coalesced, a consumer always reloads the full collection anyway.
func (n *Notifier) Signals(ctx context.Context, owner training.Owner, collection Collection) (<-chan struct{}, func() error, error) {
	channel := Channel(owner, collection)
	pubsub := n.rdb.Subscribe(ctx, channel)
	// wait for the subscription confirmation, so no signal sent after Signals returns is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	n.subscribersAdd(1)

	signals := make(chan struct{}, n.bufferSize)
	messages := pubsub.Channel()
	go func() {
		defer close(signals)
		for range messages {
			select {
			case signals <- struct{}{}:
			default:
				log.Tracef("live: signal on %s coalesced", channel)
			}
		}
	}()

	closeFunc := func() error {
		n.subscribersAdd(-1)
		return pubsub.Close()
	}
	return signals, closeFunc, nil
}

func (n *Notifier) subscribersAdd(delta float64) {
	if n.metricsManager != nil {
		n.metricsManager.GaugeLiveSubscribers.Add(delta)
	}
}
