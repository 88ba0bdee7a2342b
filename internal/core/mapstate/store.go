// Package mapstate holds the map view state for one client session: viewport,
// basemap, overlay layers, the territory being drawn and the active property
// filters. Only the visual preferences (basemap, layers, heatmap intensity and
// the 3D-buildings flag) are persisted; everything else lives for the session.
package mapstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
	"github.com/samirrijal/evoteli/internal/pkg/metrics"
	"github.com/samirrijal/evoteli/internal/pkg/telemetry"
)

const persistTimeout = 2 * time.Second

// Observer receives a snapshot after every state transition.
type Observer func(domain.MapState)

// Store is the single source of truth for a session's map state.
// Every mutator is one atomic transition; observers see each transition once.
type Store struct {
	mu        sync.Mutex
	state     domain.MapState
	storage   ports.PreferenceStorage
	key       string
	logger    *slog.Logger
	observers map[uint64]Observer
	nextObs   uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for absorbed persistence errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New creates a store initialised from the defaults merged with whatever
// preferences storage holds. storage may be nil, in which case nothing is
// persisted. New never fails: unreadable preferences fall back to defaults.
func New(ctx context.Context, storage ports.PreferenceStorage, opts ...Option) *Store {
	s := &Store{
		state:     Defaults(),
		storage:   storage,
		key:       StorageKey,
		logger:    slog.Default(),
		observers: make(map[uint64]Observer),
	}
	for _, o := range opts {
		o(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.storage == nil {
		return
	}
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.PreferenceLoadFallbacks.Inc()
			s.logger.WarnContext(ctx, "map preferences unavailable, using defaults",
				"key", s.key, "error", err)
		}
		return
	}
	state, err := Decode(raw, s.state)
	if err != nil {
		metrics.PreferenceLoadFallbacks.Inc()
		s.logger.WarnContext(ctx, "map preferences partially recovered",
			"key", s.key, "error", err)
	}
	s.state = state
}

// State returns a snapshot of the full state.
func (s *Store) State() domain.MapState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Viewport returns the current camera state.
func (s *Store) Viewport() domain.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Viewport
}

// Filters returns a copy of the active filters.
func (s *Store) Filters() domain.PropertyFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filters.Clone()
}

// Preferences returns the persisted projection of the current state.
func (s *Store) Preferences() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.state)
}

// Subscribe registers fn to be called after every transition. The returned
// function removes the registration.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// SetViewport replaces the viewport wholesale. Zoom is clamped to the map's range.
func (s *Store) SetViewport(ctx context.Context, v domain.Viewport) {
	v.Zoom = clampZoom(v.Zoom)
	s.apply(ctx, "set_viewport", false, func(st *domain.MapState) {
		st.Viewport = v
	})
}

// SetBasemap replaces the basemap style.
func (s *Store) SetBasemap(ctx context.Context, b domain.BasemapStyle) {
	s.apply(ctx, "set_basemap", true, func(st *domain.MapState) {
		st.Basemap = b
	})
}

// ToggleLayer removes layer from the active set if present and adds it otherwise.
func (s *Store) ToggleLayer(ctx context.Context, layer domain.LayerType) {
	s.apply(ctx, "toggle_layer", true, func(st *domain.MapState) {
		layers := st.ActiveLayers.Clone()
		layers.Toggle(layer)
		st.ActiveLayers = layers
	})
}

// Toggle3DBuildings flips the 3D-buildings flag. The flag is not part of the layer set.
func (s *Store) Toggle3DBuildings(ctx context.Context) {
	s.apply(ctx, "toggle_3d_buildings", true, func(st *domain.MapState) {
		st.Show3DBuildings = !st.Show3DBuildings
	})
}

// SetHeatmapIntensity stores intensity as given; callers own range checks.
func (s *Store) SetHeatmapIntensity(ctx context.Context, intensity float64) {
	s.apply(ctx, "set_heatmap_intensity", true, func(st *domain.MapState) {
		st.HeatmapIntensity = intensity
	})
}

// SetDrawnTerritory replaces the territory being drawn. nil clears it.
func (s *Store) SetDrawnTerritory(ctx context.Context, p *domain.Polygon) {
	p = p.Clone()
	s.apply(ctx, "set_drawn_territory", false, func(st *domain.MapState) {
		st.DrawnTerritory = p
	})
}

// SetDrawMode selects the active shape tool.
func (s *Store) SetDrawMode(ctx context.Context, m domain.DrawMode) {
	s.apply(ctx, "set_draw_mode", false, func(st *domain.MapState) {
		st.DrawMode = m
	})
}

// ClearDrawnTerritory resets both the territory and the draw mode in one transition.
func (s *Store) ClearDrawnTerritory(ctx context.Context) {
	s.apply(ctx, "clear_drawn_territory", false, clearDrawing)
}

// ClearDrawnTerritoryIf clears the drawing only when match reports true for
// the state at the moment of the clear. The check and the clear are one
// transition. It reports whether the drawing was cleared.
func (s *Store) ClearDrawnTerritoryIf(ctx context.Context, match func(domain.MapState) bool) bool {
	s.mu.Lock()
	if !match(s.state) {
		s.mu.Unlock()
		return false
	}
	s.commitLocked(ctx, "clear_drawn_territory", false, clearDrawing)
	return true
}

func clearDrawing(st *domain.MapState) {
	st.DrawnTerritory = nil
	st.DrawMode = domain.DrawNone
}

// SetFilters replaces the filters wholesale.
func (s *Store) SetFilters(ctx context.Context, f domain.PropertyFilters) {
	f = f.Clone()
	s.apply(ctx, "set_filters", false, func(st *domain.MapState) {
		st.Filters = f
	})
}

// ResetFilters sets the filters to the empty object.
func (s *Store) ResetFilters(ctx context.Context) {
	s.apply(ctx, "reset_filters", false, func(st *domain.MapState) {
		st.Filters = domain.PropertyFilters{}
	})
}

// apply runs one transition. When persist is set the projection is written
// before the lock is released so writes land in mutation order.
func (s *Store) apply(ctx context.Context, op string, persist bool, mutate func(*domain.MapState)) {
	s.mu.Lock()
	s.commitLocked(ctx, op, persist, mutate)
}

// commitLocked mutates, persists and notifies. It is entered with s.mu held
// and releases it before observers run.
func (s *Store) commitLocked(ctx context.Context, op string, persist bool, mutate func(*domain.MapState)) {
	mutate(&s.state)
	s.state.Version++
	if persist {
		s.persistLocked(ctx)
	}
	snapshot := s.state.Clone()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	metrics.MapStateMutations.WithLabelValues(op).Inc()
	for _, fn := range observers {
		fn(snapshot)
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.storage == nil {
		return
	}
	ctx, span := otel.Tracer(telemetry.TracerStorage).Start(ctx, "persist preferences")
	defer span.End()

	payload, err := Encode(Project(s.state))
	if err == nil {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		err = s.storage.Set(wctx, s.key, payload)
		cancel()
	}
	if err != nil {
		span.RecordError(err)
		metrics.PreferenceWriteFailures.Inc()
		s.logger.ErrorContext(ctx, "persist map preferences", "key", s.key, "error", err)
		return
	}
	metrics.PreferenceWrites.Inc()
}
