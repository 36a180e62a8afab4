// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/config"
	"github.com/j-veylop/zai-dashboard-tui/internal/db"
	"github.com/j-veylop/zai-dashboard-tui/internal/loader"
	"github.com/j-veylop/zai-dashboard-tui/internal/logger"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// ErrUnknownArtist is returned for an artist id that is not in the catalog.
var ErrUnknownArtist = errors.New("unknown artist")

type (
	// CatalogReloadedEvent is emitted when the data directory changed and the
	// catalog was loaded again.
	CatalogReloadedEvent struct {
		Artists []models.ArtistSummary
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (CatalogReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager owns the artist catalog of a session and runs report pipelines
// against it.
type Manager struct {
	mu            sync.RWMutex
	cfg           *config.Config
	database      *db.DB
	artists       []*models.Artist
	byID          map[string]*models.Artist
	runner        *Runner
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	eventChan     chan ServiceEvent
	stopChan      chan struct{}
	subscribers   []chan<- ServiceEvent
	closeOnce     sync.Once
}

// NewManager materializes the catalog from the configured source and starts
// the data directory watcher when enabled.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		runner:    NewRunner(analytics.Options{Workers: cfg.AggregationWorkers}),
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	if cfg.DataSource == config.SourceSQLite {
		var err error
		m.database, err = db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	artists, err := m.loadCatalog(context.Background())
	if err != nil {
		_ = m.closeDatabase()
		return nil, err
	}
	m.setCatalog(artists)
	logger.Info("catalog loaded", "source", cfg.DataSource, "artists", len(artists))

	if cfg.WatchData && cfg.DataSource != config.SourceSQLite {
		if err := m.startWatcher(); err != nil {
			logger.Warn("data watcher unavailable", "dir", cfg.DataDir, "error", err)
		}
	}

	return m, nil
}

func (m *Manager) loadCatalog(ctx context.Context) ([]*models.Artist, error) {
	if m.database != nil {
		artists, err := m.database.LoadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load fact store: %w", err)
		}
		return artists, nil
	}

	reg, err := loader.LoadRegistry(m.cfg.ArtistsMetadata)
	if err != nil {
		return nil, err
	}
	artists, err := loader.LoadDir(ctx, m.cfg.DataDir, reg, m.cfg.AggregationWorkers)
	if err != nil {
		return nil, fmt.Errorf("load data dir: %w", err)
	}
	return artists, nil
}

func (m *Manager) setCatalog(artists []*models.Artist) {
	byID := make(map[string]*models.Artist, len(artists))
	for _, a := range artists {
		byID[a.Profile.ID] = a
	}
	m.mu.Lock()
	m.artists = artists
	m.byID = byID
	m.mu.Unlock()
}

// Artists returns the catalog in load order.
func (m *Manager) Artists() []*models.Artist {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Artist, len(m.artists))
	copy(out, m.artists)
	return out
}

// Artist returns the artist with the given id.
func (m *Manager) Artist(id string) (*models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtist, id)
	}
	return a, nil
}

// Summaries returns the home page ranking of the catalog.
func (m *Manager) Summaries() []models.ArtistSummary {
	return analytics.RankArtists(m.Artists())
}

// Report runs the pipeline for one artist, superseding any run in flight.
func (m *Manager) Report(ctx context.Context, id string, f models.Filter) (*analytics.Report, uint64, error) {
	a, err := m.Artist(id)
	if err != nil {
		return nil, 0, err
	}
	return m.runner.Run(ctx, a, f)
}

// startWatcher watches the data directory for fact file changes.
func (m *Manager) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(m.cfg.DataDir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	m.watcher = watcher

	go m.watchLoop()
	return nil
}

func (m *Manager) relevant(name string) bool {
	base := filepath.Base(name)
	if base == filepath.Base(m.cfg.ArtistsMetadata) {
		return true
	}
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return loader.IsFactFile(base)
}

// watchLoop handles file system events with debouncing.
func (m *Manager) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !m.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			m.mu.Lock()
			if m.debounceTimer != nil {
				m.debounceTimer.Stop()
			}
			m.debounceTimer = time.AfterFunc(m.cfg.ReloadDebounce, m.reload)
			m.mu.Unlock()

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.broadcast(ErrorEvent{Service: "watcher", Error: err})

		case <-m.stopChan:
			return
		}
	}
}

// reload loads the catalog again and swaps it in on success. A failed load
// keeps the previous catalog.
func (m *Manager) reload() {
	select {
	case <-m.stopChan:
		return
	default:
	}

	artists, err := m.loadCatalog(context.Background())
	if err != nil {
		logger.Error("catalog reload failed", "error", err)
		m.broadcast(ErrorEvent{Service: "catalog", Error: err})
		m.notify("Zai: data reload failed", err.Error())
		return
	}

	m.setCatalog(artists)
	logger.Info("catalog reloaded", "artists", len(artists))
	m.broadcast(CatalogReloadedEvent{Artists: m.Summaries()})
	m.notify("Zai: data reloaded", fmt.Sprintf("%d artists loaded from %s", len(artists), m.cfg.DataDir))
}

func (m *Manager) notify(title, body string) {
	if !m.cfg.DesktopNotify {
		return
	}
	if err := notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (m *Manager) closeDatabase() error {
	if m.database == nil {
		return nil
	}
	return m.database.Close()
}

// Close stops the watcher, cancels any running pipeline and releases the
// fact store.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		close(m.stopChan)
		m.runner.Cancel()

		m.mu.Lock()
		if m.debounceTimer != nil {
			m.debounceTimer.Stop()
		}
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := m.closeDatabase(); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}
