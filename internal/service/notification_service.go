package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/events"
)

// NotificationService logs roster events and relays them to a Redis channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	client     *redis.Client
	channel    string
}

// NewNotificationService creates the service. A nil client disables the relay.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, client *redis.Client, channel string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		client:     client,
		channel:    channel,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRosterLoaded, n.handleRosterLoaded)
	n.dispatcher.Subscribe(events.EventCollaboratorAdded, n.handleCollaboratorChanged)
	n.dispatcher.Subscribe(events.EventCollaboratorRemoved, n.handleCollaboratorChanged)
	n.dispatcher.Subscribe(events.EventViewChanged, n.handleViewChanged)
}

func (n *NotificationService) handleRosterLoaded(ctx context.Context, event events.Event) error {
	n.logger.Debug("RosterLoaded", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return n.relay(ctx, event)
}

func (n *NotificationService) handleCollaboratorChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("collaborator_id", event.CollaboratorID),
		zap.Any("payload", event.Payload))
	return n.relay(ctx, event)
}

func (n *NotificationService) handleViewChanged(ctx context.Context, event events.Event) error {
	n.logger.Debug("ViewChanged", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return n.relay(ctx, event)
}

func (n *NotificationService) relay(ctx context.Context, event events.Event) error {
	if n.client == nil || n.channel == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("relay %s: %w", event.Type, err)
	}
	return nil
}
