package services

import (
	"context"
	"sync"
	"time"
	"toilet-finder/logger"
	"toilet-finder/metrics"

	"github.com/google/uuid"
)

// Registry owns the open views by id.
type Registry struct {
	mu          sync.RWMutex
	views       map[string]*View
	opts        ViewOptions
	idleTimeout time.Duration
}

func NewRegistry(opts ViewOptions, idleTimeout time.Duration) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &Registry{
		views:       make(map[string]*View),
		opts:        opts,
		idleTimeout: idleTimeout,
	}
}

// Create opens a new view and starts its geolocation wait.
func (r *Registry) Create() *View {
	v := NewView(uuid.New().String(), r.opts)

	r.mu.Lock()
	r.views[v.ID] = v
	n := len(r.views)
	r.mu.Unlock()

	v.Start()
	metrics.ViewsActive.Set(float64(n))
	logger.L().Info("view_created", "view_id", v.ID, "views", n)
	return v
}

func (r *Registry) Get(id string) (*View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	return v, ok
}

// Close removes and tears down a view. It reports whether the view existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	v, ok := r.views[id]
	if ok {
		delete(r.views, id)
	}
	n := len(r.views)
	r.mu.Unlock()

	if !ok {
		return false
	}
	v.Close()
	metrics.ViewsActive.Set(float64(n))
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Sweep closes views idle since before now-idleTimeout and returns how many
// were closed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTimeout)

	r.mu.Lock()
	var stale []*View
	for id, v := range r.views {
		if v.IdleSince().Before(cutoff) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	n := len(r.views)
	r.mu.Unlock()

	for _, v := range stale {
		v.Close()
	}
	if len(stale) > 0 {
		metrics.ViewsActive.Set(float64(n))
		logger.L().Info("views_swept", "closed", len(stale), "views", n)
	}
	return len(stale)
}

// Run sweeps idle views every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// CloseAll tears down every view; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	metrics.ViewsActive.Set(0)
}
