package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"toilet-finder/logger"
	"toilet-finder/metrics"
	"toilet-finder/models"
)

var (
	ErrViewClosed    = errors.New("view is closed")
	ErrUnknownToilet = errors.New("toilet is not in the candidate set")
	ErrNoSelection   = errors.New("no toilet selected")
	ErrNoPosition    = errors.New("user position is unknown")
)

// ViewOptions configures every view created by a Registry.
type ViewOptions struct {
	Generator         Generator
	Router            Router
	Tiles             models.TileLayer
	Center            models.Coordinate
	Zoom              int
	DirectionsBaseURL string
	RouteTimeout      time.Duration
}

// View is the controller state of one open map page: the user position,
// the candidate toilets, the single selection and the route overlay.
// All transitions go through its methods.
type View struct {
	ID string

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	closed     bool
	opts       ViewOptions
	locator    *ReportedLocator
	surface    *MapSurface
	routes     *RouteSynchronizer
	position   *models.Coordinate
	locErr     error
	candidates []models.Toilet
	selected   *models.Toilet
	version    uint64
	lastActive time.Time
	subs       map[int]chan models.MapSnapshot
	nextSub    int
}

func NewView(id string, opts ViewOptions) *View {
	if opts.Generator == nil {
		opts.Generator = NewMockGenerator()
	}
	if opts.Router == nil {
		opts.Router = StaticRouter{}
	}
	if opts.RouteTimeout <= 0 {
		opts.RouteTimeout = 15 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	surface := NewMapSurface(opts.Tiles, opts.Center, opts.Zoom)

	return &View{
		ID:         id,
		ctx:        ctx,
		cancel:     cancel,
		opts:       opts,
		locator:    NewReportedLocator(),
		surface:    surface,
		routes:     NewRouteSynchronizer(opts.Router, surface),
		lastActive: time.Now(),
		subs:       make(map[int]chan models.MapSnapshot),
	}
}

// Start begins waiting for geolocation. The wait ends when the view closes.
func (v *View) Start() {
	go v.watchLocation(v.locator)
}

func (v *View) watchLocation(loc Locator) {
	for {
		c, err := loc.Locate(v.ctx)
		if v.ctx.Err() != nil {
			return
		}
		if err != nil {
			if stop := v.locationFailed(err); stop {
				return
			}
			continue
		}
		if err := v.locationFound(c); err != nil && !errors.Is(err, ErrViewClosed) {
			logger.L().Warn("view_location_rejected", "view_id", v.ID, "err", err)
		}
	}
}

// ReportLocation hands a browser fix to the view's geolocation wait.
func (v *View) ReportLocation(c models.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if v.isClosed() {
		return ErrViewClosed
	}
	v.touch()
	v.locator.Report(c)
	return nil
}

// ReportLocationError hands a browser geolocation failure to the view.
func (v *View) ReportLocationError(err *LocationError) error {
	if v.isClosed() {
		return ErrViewClosed
	}
	v.touch()
	v.locator.Fail(err)
	return nil
}

func (v *View) locationFound(c models.Coordinate) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}

	v.position = &c
	v.locErr = nil
	v.surface.SetUser(c)
	metrics.LocationFixesTotal.Inc()

	// Candidates are fixed once generated; a failed generation is retried
	// on the next fix.
	if len(v.candidates) == 0 {
		toilets, err := v.opts.Generator.Generate(v.ctx, c)
		if err == nil {
			err = models.ValidateCandidates(toilets)
		}
		if err != nil {
			logger.L().Error("view_generate_error", "view_id", v.ID, "err", err)
			toilets = nil
		}
		v.candidates = toilets
		v.surface.SetCandidates(toilets)
		logger.L().Info("view_located", "view_id", v.ID, "lat", c.Lat, "lng", c.Lng, "candidates", len(toilets))
	}

	pending := v.routes.Begin(v.position, v.selected)
	v.changedLocked()
	v.mu.Unlock()

	v.build(pending)
	return nil
}

// locationFailed records a geolocation failure. Without a known position the
// view stays without one for good and the wait stops.
func (v *View) locationFailed(err error) (stop bool) {
	reason := "unknown"
	var le *LocationError
	if errors.As(err, &le) {
		reason = le.Reason()
	}
	metrics.LocationFailuresTotal.WithLabelValues(reason).Inc()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return true
	}

	if v.position != nil {
		logger.L().Warn("view_location_watch_error", "view_id", v.ID, "err", err)
		return false
	}

	logger.L().Warn("view_location_unavailable", "view_id", v.ID, "reason", reason, "err", err)
	v.locErr = err
	v.changedLocked()
	return true
}

// Select makes the toilet with the given id the single selection and
// rebuilds the route. A routing failure is returned wrapped in
// ErrRouteUnavailable but the selection still stands.
func (v *View) Select(id string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.position == nil {
		v.mu.Unlock()
		return fmt.Errorf("select %q: %w", id, ErrNoPosition)
	}
	t, ok := v.surface.Activate(id)
	if !ok {
		v.mu.Unlock()
		return fmt.Errorf("select %q: %w", id, ErrUnknownToilet)
	}

	v.lastActive = time.Now()
	v.selected = &t
	pending := v.routes.BeginRetry(v.position, v.selected)
	v.changedLocked()
	v.mu.Unlock()

	metrics.SelectionsTotal.Inc()
	return v.build(pending)
}

// Deselect closes the detail panel: no selection, no overlay.
func (v *View) Deselect() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}

	v.lastActive = time.Now()
	v.selected = nil
	v.routes.Begin(v.position, nil)
	v.changedLocked()
	return nil
}

func (v *View) build(p *PendingRoute) error {
	if p == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(v.ctx, v.opts.RouteTimeout)
	defer cancel()

	err := p.Build(ctx)
	if err != nil {
		logger.L().Warn("view_route_error", "view_id", v.ID, "err", err)
	}

	v.mu.Lock()
	if !v.closed {
		v.changedLocked()
	}
	v.mu.Unlock()
	return err
}

// Selected returns a copy of the selected toilet.
func (v *View) Selected() (models.Toilet, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return models.Toilet{}, false
	}
	return *v.selected, true
}

// Candidates returns the toilets currently shown on the map.
func (v *View) Candidates() []models.Toilet {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Toilet(nil), v.candidates...)
}

// Position returns the last known user position.
func (v *View) Position() (models.Coordinate, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.position == nil {
		return models.Coordinate{}, false
	}
	return *v.position, true
}

// DirectionsURL is the external directions link for the current selection.
func (v *View) DirectionsURL() (string, error) {
	t, ok := v.Selected()
	if !ok {
		return "", ErrNoSelection
	}
	return DirectionsURL(v.opts.DirectionsBaseURL, t.Position), nil
}

// PanelState is what the detail panel shows, read in one step.
type PanelState struct {
	Toilet        *models.Toilet
	DirectionsURL string
	RouteError    string
}

// Panel returns the selection with its directions link and the last routing
// failure. Toilet is nil when nothing is selected.
func (v *View) Panel() PanelState {
	v.mu.Lock()
	defer v.mu.Unlock()

	var p PanelState
	if v.selected == nil {
		return p
	}
	t := *v.selected
	p.Toilet = &t
	p.DirectionsURL = DirectionsURL(v.opts.DirectionsBaseURL, t.Position)
	if err := v.routes.LastError(); err != nil {
		p.RouteError = err.Error()
	}
	return p
}

func (v *View) Snapshot() models.MapSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() models.MapSnapshot {
	s := models.MapSnapshot{
		ViewID:  v.ID,
		Version: v.version,
		Located: v.position != nil,
	}
	v.surface.Render(&s)
	if v.locErr != nil {
		s.LocationError = v.locErr.Error()
	}
	if v.selected != nil {
		s.SelectedID = v.selected.ID
	}
	if err := v.routes.LastError(); err != nil {
		s.RouteError = err.Error()
	}
	return s
}

// RouteState exposes the synchronizer state.
func (v *View) RouteState() SyncState {
	return v.routes.State()
}

// OverlayCount is the number of live overlays on the view's map.
func (v *View) OverlayCount() int {
	return v.surface.OverlayCount()
}

// Subscribe returns a channel that receives the current snapshot and then
// every change. Slow readers only see the latest snapshot. The channel is
// closed when the view closes or cancel is called.
func (v *View) Subscribe() (<-chan models.MapSnapshot, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan models.MapSnapshot, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}

	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if c, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(c)
			}
		})
	}
}

func (v *View) changedLocked() {
	v.version++
	snap := v.snapshotLocked()
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// Close tears the view down. Pending geolocation results and route builds
// are ignored afterwards.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	v.closed = true
	v.cancel()
	v.routes.Release()
	v.selected = nil
	for id, ch := range v.subs {
		close(ch)
		delete(v.subs, id)
	}
	logger.L().Info("view_closed", "view_id", v.ID)
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) touch() {
	v.mu.Lock()
	v.lastActive = time.Now()
	v.mu.Unlock()
}

// IdleSince reports when the view last saw user activity.
func (v *View) IdleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}
