package cache

import (
	"context"
	"encoding/json"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/lumenpaints/erp-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// pump fans change-feed events out to a fixed set of workers using
// consistent hashing on the record id, so all events for one record are
// applied in arrival order even though collections apply independently.
type pump struct {
	workers []chan ports.ChangeEvent
	apply   func(ports.ChangeEvent)
	log     zerolog.Logger
}

func newPump(numWorkers int, apply func(ports.ChangeEvent), log zerolog.Logger) *pump {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	p := &pump{
		workers: make([]chan ports.ChangeEvent, numWorkers),
		apply:   apply,
		log:     log,
	}
	for i := range p.workers {
		p.workers[i] = make(chan ports.ChangeEvent, channelBuffer)
	}
	return p
}

// start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *pump) start(ctx context.Context) {
	for _, ch := range p.workers {
		go p.runWorker(ctx, ch)
	}
}

// enqueue routes the event to the worker responsible for its record id.
func (p *pump) enqueue(ev ports.ChangeEvent) {
	p.workers[p.shardIndex(eventKey(ev))] <- ev
}

// eventKey extracts the record id the event is about: the new row's id
// for inserts/updates, the old row's for deletes.
func eventKey(ev ports.ChangeEvent) string {
	var row struct {
		ID string `json:"id"`
	}
	if len(ev.New) > 0 && json.Unmarshal(ev.New, &row) == nil && row.ID != "" {
		return ev.Table + ":" + row.ID
	}
	if len(ev.Old) > 0 && json.Unmarshal(ev.Old, &row) == nil {
		return ev.Table + ":" + row.ID
	}
	return ev.Table
}

func (p *pump) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(p.workers)
}

func (p *pump) runWorker(ctx context.Context, ch <-chan ports.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			p.apply(ev)
		}
	}
}
