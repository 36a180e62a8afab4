package app

import (
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
	"github.com/j-veylop/zai-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// CatalogLoadedMsg carries the artist catalog of the session.
type CatalogLoadedMsg struct {
	Artists   []*models.Artist
	Summaries []models.ArtistSummary
}

// SelectArtistMsg requests switching the dashboard to another artist.
type SelectArtistMsg struct {
	ID string
}

// ArtistSelectedMsg tells tabs that the selection and filter were reset.
type ArtistSelectedMsg struct {
	ID string
}

// FilterChangedMsg requests a new pipeline run under Filter.
type FilterChangedMsg struct {
	Filter models.Filter
}

// ReportLoadedMsg carries the result of report request Seq.
type ReportLoadedMsg struct {
	Seq      uint64
	ArtistID string
	Report   *analytics.Report
	Err      error
}

// ReportReadyMsg tells tabs that a new report is in State.
type ReportReadyMsg struct {
	Seq uint64
}

// RefreshMsg requests a new run of the current report.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
