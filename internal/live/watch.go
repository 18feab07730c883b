package live

import (
	"context"
	"sync"

	"github.com/2beens/stargym/internal/training"

	log "github.com/sirupsen/logrus"
)

type signalSource interface {
	Signals(ctx context.Context, owner training.Owner, collection Collection) (<-chan struct{}, func() error, error)
}

// Snapshot is the full state of a collection. Consumers replace their copy wholesale.
type Snapshot[T any] struct {
	// Seq grows by one with every snapshot of a subscription, starting at 1.
	Seq   uint64 `json:"seq"`
	Items []T    `json:"items"`
}

// Watch delivers the current collection right away and a fresh full snapshot after every
// change signal, until ctx is done or the returned unsubscribe func is called.
// onChange is never called concurrently and never after unsubscribe returns.
func Watch[T any](
	ctx context.Context,
	source signalSource,
	owner training.Owner,
	collection Collection,
	load func(ctx context.Context) ([]T, error),
	onChange func(Snapshot[T]),
) (func(), error) {
	signals, closeSignals, err := source.Signals(ctx, owner, collection)
	if err != nil {
		return nil, err
	}

	items, err := load(ctx)
	if err != nil {
		_ = closeSignals()
		return nil, err
	}

	seq := uint64(1)
	onChange(Snapshot[T]{Seq: seq, Items: items})

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if err := closeSignals(); err != nil {
				log.Warnf("live: close %s subscription for %s: %s", collection, owner.UserID, err)
			}
		}()
		for {
			select {
			case <-watchCtx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				items, err := load(watchCtx)
				if err != nil {
					if watchCtx.Err() == nil {
						log.Errorf("live: reload %s for %s: %s", collection, owner.UserID, err)
					}
					continue
				}
				if watchCtx.Err() != nil {
					return
				}
				seq++
				onChange(Snapshot[T]{Seq: seq, Items: items})
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	return unsubscribe, nil
}
