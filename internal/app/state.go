// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Catalog bool
	Report  bool
}

// Bounds is the full extent of the selected artist's table, used to clamp
// and reset the filter.
type Bounds struct {
	First   time.Time
	Last    time.Time
	Regions []string
}

// State is the session state shared by the application model and its tabs.
type State struct {
	mu sync.RWMutex

	artists   map[string]*models.Artist
	summaries []models.ArtistSummary

	selectedID string
	filter     models.Filter
	bounds     Bounds

	report    *analytics.Report
	reportErr error
	reportSeq uint64
	pending   uint64

	Loading     LoadingState
	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{
		artists:       make(map[string]*models.Artist),
		notifications: make([]Notification, 0),
		Loading:       LoadingState{Catalog: true},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "catalog":
		s.Loading.Catalog = loading
	case "report":
		s.Loading.Report = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Catalog || s.Loading.Report
}

// IsCatalogLoading returns true until the first catalog arrives.
func (s *State) IsCatalogLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Catalog
}

// IsReportLoading returns true while a report run is pending.
func (s *State) IsReportLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Report
}

// SetCatalog replaces the artist catalog. The selection is kept when the
// selected artist still exists and its bounds follow the reloaded table. A
// filter spanning the whole old table is widened to the whole new one; a
// narrowed filter is kept as is.
func (s *State) SetCatalog(artists []*models.Artist, summaries []models.ArtistSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.artists = make(map[string]*models.Artist, len(artists))
	for _, a := range artists {
		s.artists[a.Profile.ID] = a
	}
	s.summaries = summaries
	s.Loading.Catalog = false
	s.LastUpdated = time.Now()

	a, ok := s.artists[s.selectedID]
	if !ok {
		s.selectedID = ""
		s.bounds = Bounds{}
		s.report = nil
		s.reportErr = nil
		return
	}

	full := s.coversBounds()
	s.bounds = tableBounds(a.Table)
	if full {
		s.filter = models.DefaultFilter(a.Table)
	}
}

func tableBounds(t *models.FactTable) Bounds {
	first, last, _ := t.DateBounds()
	return Bounds{First: first, Last: last, Regions: t.Regions()}
}

// coversBounds reports whether the filter spans the full extent of the
// selected table. Callers hold the lock.
func (s *State) coversBounds() bool {
	return s.filter.From.Equal(s.bounds.First) &&
		s.filter.To.Equal(s.bounds.Last) &&
		slices.Equal(s.filter.Regions, s.bounds.Regions)
}

// Summaries returns the ranked artist cards.
func (s *State) Summaries() []models.ArtistSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.summaries)
}

// ArtistCount returns the number of artists in the catalog.
func (s *State) ArtistCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artists)
}

// SelectArtist makes id the current artist and resets the filter to the full
// extent of its table. It returns false for an unknown id.
func (s *State) SelectArtist(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.artists[id]
	if !ok {
		return false
	}
	s.selectedID = id
	s.bounds = tableBounds(a.Table)
	s.filter = models.DefaultFilter(a.Table)
	s.report = nil
	s.reportErr = nil
	return true
}

// Selected returns the selected artist, or nil.
func (s *State) Selected() *models.Artist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artists[s.selectedID]
}

// SelectedID returns the id of the selected artist.
func (s *State) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// Filter returns a copy of the current filter.
func (s *State) Filter() models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.filter
	f.Regions = slices.Clone(s.filter.Regions)
	return f
}

// SetFilter replaces the current filter.
func (s *State) SetFilter(f models.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// ResetFilter restores the full extent of the selected artist's table.
func (s *State) ResetFilter() models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = models.Filter{
		From:    s.bounds.First,
		To:      s.bounds.Last,
		Regions: slices.Clone(s.bounds.Regions),
	}
	return s.filter
}

// Bounds returns the extent of the selected artist's table.
func (s *State) Bounds() Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.bounds
	b.Regions = slices.Clone(s.bounds.Regions)
	return b
}

// BeginReport allocates the sequence number of a new report request. Only
// the result carrying the latest number is accepted.
func (s *State) BeginReport() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	s.Loading.Report = true
	return s.pending
}

// PendingSeq returns the sequence number of the latest report request.
func (s *State) PendingSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// SetReport stores the result of request seq. Stale results are dropped and
// false is returned.
func (s *State) SetReport(seq uint64, report *analytics.Report, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.pending {
		return false
	}
	s.report = report
	s.reportErr = err
	s.reportSeq = seq
	s.Loading.Report = false
	s.LastUpdated = time.Now()
	return true
}

// Report returns the current report and the error of the run that produced
// it, if that run failed as a whole.
func (s *State) Report() (*analytics.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.reportErr
}

// ReportSeq returns the sequence number of the displayed report.
func (s *State) ReportSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportSeq
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
