package scorecard

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
)

// reloadDebounce coalesces the burst of events editors and deploy tools emit for one change.
const reloadDebounce = 250 * time.Millisecond

// ReloadHook observes every load attempt.
type ReloadHook func(version string, loaded bool, err error)

// Registry owns the currently loaded model and swaps it atomically on reload.
// A failed reload keeps the previous model.
type Registry struct {
	path    string
	current atomic.Pointer[Model]
	logger  logger.Logger

	mu    sync.Mutex
	hooks []ReloadHook
}

// NewRegistry creates an empty registry for the artifact at path. Call Load to populate it.
func NewRegistry(path string, log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Registry{
		path:   path,
		logger: log.WithComponent("scorecard_registry"),
	}
}

// OnReload registers a hook invoked after every load attempt.
func (r *Registry) OnReload(h ReloadHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Path returns the watched artifact path.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the artifact and, if valid, makes it current.
func (r *Registry) Load(ctx context.Context) error {
	m, err := LoadModel(r.path)
	if err != nil {
		r.logger.Error(ctx, "Failed to load scorecard", err, logger.String("path", r.path))
		r.notify("", r.Loaded(), err)
		return err
	}

	prev := r.current.Swap(m)
	fields := []logger.Field{
		logger.String("path", r.path),
		logger.String("version", m.Version()),
		logger.Int("features", len(m.SelectedFeatures())),
	}
	if prev != nil {
		fields = append(fields, logger.String("previous_version", prev.Version()))
	}
	r.logger.Info(ctx, "Scorecard loaded", fields...)
	r.notify(m.Version(), true, nil)
	return nil
}

// Set installs an already-built model. Used by tests and offline tooling.
func (r *Registry) Set(m *Model) {
	r.current.Store(m)
}

// Current implements service.ModelProvider.
func (r *Registry) Current() (service.ScoringModel, error) {
	m := r.current.Load()
	if m == nil {
		return nil, errors.ErrModelUnavailable(fmt.Sprintf("no scorecard loaded from %s", r.path))
	}
	return m, nil
}

// Loaded implements service.ModelProvider.
func (r *Registry) Loaded() bool {
	return r.current.Load() != nil
}

// Version returns the loaded artifact version, or "" when none is loaded.
func (r *Registry) Version() string {
	if m := r.current.Load(); m != nil {
		return m.Version()
	}
	return ""
}

// Watch reloads the artifact whenever its file changes, until ctx is done.
// The parent directory is watched so atomic rename-into-place deployments are seen.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create scorecard watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(r.path)

	r.logger.Info(ctx, "Watching scorecard for changes", logger.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_ = r.Load(ctx)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn(ctx, "Scorecard watcher error", logger.Err(werr))
		}
	}
}

func (r *Registry) notify(version string, loaded bool, err error) {
	r.mu.Lock()
	hooks := make([]ReloadHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	for _, h := range hooks {
		h(version, loaded, err)
	}
}
