package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-system/schedule"
)

// Notifier delivers realtime events to interested clients. Delivery is
// best-effort: implementations must never block the caller and failures
// stay inside the implementation.
type Notifier interface {
	NotifyMatch(matchID int, eventType string, payload interface{})
	NotifyUser(userID int, eventType string, payload interface{})
}

// HubNotifier pushes events into websocket rooms managed by a schedule.Hub.
type HubNotifier struct {
	hub    *schedule.Hub
	logger *slog.Logger
}

func NewHubNotifier(hub *schedule.Hub, logger *slog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, logger: logger}
}

func (n *HubNotifier) NotifyMatch(matchID int, eventType string, payload interface{}) {
	n.broadcast(fmt.Sprintf("match_%d", matchID), eventType, payload)
}

func (n *HubNotifier) NotifyUser(userID int, eventType string, payload interface{}) {
	n.broadcast(fmt.Sprintf("user_%d", userID), eventType, payload)
}

func (n *HubNotifier) broadcast(roomID, eventType string, payload interface{}) {
	event := schedule.Event{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	n.hub.BroadcastToRoom(roomID, event)
	n.logger.Debug("realtime event dispatched", slog.String("room", roomID), slog.String("type", eventType))
}

// NopNotifier discards all events. Used where realtime delivery is not wired.
type NopNotifier struct{}

func (NopNotifier) NotifyMatch(int, string, interface{}) {}
func (NopNotifier) NotifyUser(int, string, interface{})  {}
