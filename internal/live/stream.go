package live

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/stargym/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	SnapshotEvent     = "snapshot"
	keepAliveEvent    = "ping"
	keepAliveInterval = 25 * time.Second
)

// Subscribe starts delivering snapshots to onChange and returns the unsubscribe func.
type Subscribe[T any] func(ctx context.Context, onChange func(Snapshot[T])) (func(), error)

// ServeSnapshots streams snapshots as server-sent events until the client goes away.
// Only the newest pending snapshot is written, older ones are superseded.
func ServeSnapshots[T any](w http.ResponseWriter, r *http.Request, subscribe Subscribe[T], onSent func()) {
	ctx := r.Context()

	updates := make(chan Snapshot[T], 1)
	onChange := func(s Snapshot[T]) {
		select {
		case <-updates:
		default:
		}
		updates <- s
	}

	unsubscribe, err := subscribe(ctx, onChange)
	if err != nil {
		log.Errorf("live stream %s, subscribe: %s", r.URL.Path, err)
		http.Error(w, "failed to subscribe", http.StatusInternalServerError)
		return
	}
	defer unsubscribe()

	// long lived response, the server write timeout must not cut it
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Tracef("live stream %s, clear write deadline: %s", r.URL.Path, err)
	}

	stream, err := pkg.NewEventStream(w)
	if err != nil {
		log.Errorf("live stream %s: %s", r.URL.Path, err)
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			if err := stream.Send(keepAliveEvent, time.Now().Unix()); err != nil {
				return
			}
		case snapshot := <-updates:
			if err := stream.Send(SnapshotEvent, snapshot); err != nil {
				log.Debugf("live stream %s, send snapshot %d: %s", r.URL.Path, snapshot.Seq, err)
				return
			}
			if onSent != nil {
				onSent()
			}
		}
	}
}
