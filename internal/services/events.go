package services

// EventPublisher pushes task events to connected users after the store commits
type EventPublisher interface {
	BroadcastToUsers(userIDs []uint64, eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) BroadcastToUsers([]uint64, string, interface{}) {}
