package services

import (
	"skillswap/pkg/logger"
	"skillswap/pkg/metrics"
)

const (
	EventUserRegistered  = "user.registered"
	EventSkillCreated    = "skill.created"
	EventSkillUpdated    = "skill.updated"
	EventSkillDeleted    = "skill.deleted"
	EventCommentCreated  = "comment.created"
	EventFavoriteToggled = "favorite.toggled"
)

// EventPublisher sends activity events to a broker.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// notifier publishes after a successful write. A failed publish is logged
// and never reaches the caller.
type notifier struct {
	pub EventPublisher
	log logger.Logger
}

func (n notifier) emit(routingKey string, payload map[string]interface{}) {
	if n.pub == nil {
		return
	}
	err := n.pub.Publish(routingKey, payload)
	metrics.RecordEventPublished(routingKey, err)
	if err != nil {
		n.log.Warn("failed to publish event", map[string]interface{}{
			"routing_key": routingKey,
			"error":       err,
		})
	}
}
