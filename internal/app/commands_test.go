package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
	"github.com/j-veylop/zai-dashboard-tui/internal/services"
)

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Tick(time.Millisecond) == nil {
		t.Error("Tick returned nil")
	}
	if cmds.DefaultTick() == nil {
		t.Error("DefaultTick returned nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess},
		{"Error", cmds.NotifyError, NotificationError},
		{"Warning", cmds.NotifyWarning, NotificationWarning},
		{"Info", cmds.NotifyInfo, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration <= 0 {
				t.Errorf("Duration = %v, want > 0", addMsg.Duration)
			}
		})
	}
}

func TestCommands_Requests(t *testing.T) {
	cmds := NewCommands(nil)

	if msg, ok := cmds.SelectArtist("drake")().(SelectArtistMsg); !ok || msg.ID != "drake" {
		t.Errorf("SelectArtist produced %#v", msg)
	}

	f := models.Filter{
		From:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Regions: []string{"USA"},
	}
	msg, ok := cmds.ChangeFilter(f)().(FilterChangedMsg)
	if !ok {
		t.Fatalf("ChangeFilter produced %T", msg)
	}
	if !msg.Filter.From.Equal(f.From) || !msg.Filter.HasRegion("USA") {
		t.Errorf("ChangeFilter filter = %+v", msg.Filter)
	}

	if _, ok := cmds.Refresh()().(RefreshMsg); !ok {
		t.Error("Refresh should produce RefreshMsg")
	}
}

func TestCommands_ClearNotification(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.ClearNotification("id", time.Millisecond) == nil {
		t.Error("ClearNotification returned nil")
	}
}

func TestCommands_Quit(t *testing.T) {
	cmds := NewCommands(nil)
	msg := cmds.Quit()()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("Quit produced %T, want tea.QuitMsg", msg)
	}
}

func TestCommands_Batch(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Batch(cmds.Refresh(), cmds.DefaultTick()) == nil {
		t.Error("Batch returned nil")
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.ErrorEvent{Service: "catalog"}

	msg, ok := waitForServiceEventCmd(ch)().(ServiceEventMsg)
	if !ok {
		t.Fatalf("expected ServiceEventMsg, got %T", msg)
	}
	if _, ok := msg.Event.(services.ErrorEvent); !ok {
		t.Errorf("Event = %T, want ErrorEvent", msg.Event)
	}

	close(ch)
	if got := waitForServiceEventCmd(ch)(); got != nil {
		t.Errorf("closed channel produced %T, want nil", got)
	}
}
