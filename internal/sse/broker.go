// Package sse implements a Server-Sent Events broker for real-time updates.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types published by the broker.
const (
	TypePostCreated   = "post.created"
	TypePostUpdated   = "post.updated"
	TypePostDeleted   = "post.deleted"
	TypeCorpusUpdated = "corpus.updated"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type postEventReq struct {
	kind string
	path string
}

var postEventTypes = map[string]string{
	"created": TypePostCreated,
	"updated": TypePostUpdated,
	"deleted": TypePostDeleted,
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients and the corpus.updated throttle). Public methods communicate
// with this loop through channels, so no mutexes are required.
//
// corpus.updated is throttled on both edges: the first change in a quiet
// period is announced immediately, later ones inside the interval collapse
// into a single trailing announcement, so the last change is never lost.
type Broker struct {
	corpusMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	postEventCh   chan postEventReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker with the given corpus.updated throttle
// interval.
func NewBroker(corpusThrottle time.Duration) *Broker {
	if corpusThrottle <= 0 {
		corpusThrottle = 2 * time.Second
	}

	b := &Broker{
		corpusMin:     corpusThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		postEventCh:   make(chan postEventReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastCorpus time.Time

	// trailing fires once after a burst that was suppressed by the throttle.
	var trailing *time.Timer
	var trailingCh <-chan time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)
		raw := []byte(msg)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	announceCorpus := func(now time.Time) {
		lastCorpus = now
		broadcast(Event{Type: TypeCorpusUpdated, Data: map[string]string{}})
	}

	for {
		select {
		case <-b.stopCh:
			if trailing != nil {
				trailing.Stop()
			}
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.postEventCh:
			typ, ok := postEventTypes[req.kind]
			if !ok {
				continue
			}
			broadcast(Event{Type: typ, Data: map[string]string{"path": req.path}})

			now := time.Now()
			if since := now.Sub(lastCorpus); since >= b.corpusMin {
				if trailingCh != nil {
					trailing.Stop()
					trailingCh = nil
				}
				announceCorpus(now)
			} else if trailingCh == nil {
				trailing = time.NewTimer(b.corpusMin - since)
				trailingCh = trailing.C
			}

		case <-trailingCh:
			trailingCh = nil
			announceCorpus(time.Now())

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishPostEvent publishes a post change (kind is created, updated or
// deleted) and a throttled corpus.updated event. Unknown kinds are ignored.
func (b *Broker) PublishPostEvent(kind, path string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.postEventCh <- postEventReq{kind: kind, path: path}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events). Each message
// carries an event name, so browsers subscribe with addEventListener.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
