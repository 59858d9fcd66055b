package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	EventQuestionCreated = "question_created"
	EventQuestionDeleted = "question_deleted"
	EventAnswerCreated   = "answer_created"
	EventAnswerDeleted   = "answer_deleted"
)

// Event describes a committed write.
type Event struct {
	Type       string    `json:"type"`
	QuestionID uint      `json:"question_id"`
	AnswerID   uint      `json:"answer_id,omitempty"`
	At         time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// publish runs after the unit of work has committed, so a failure here is
// only logged.
func publish(ctx context.Context, p EventPublisher, event Event) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s event for question %d: %v", event.Type, event.QuestionID, err)
	}
}

// RedisPublisher fans events out to every instance subscribed to channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// HubPublisher delivers events straight to the local hub when no Redis is configured.
type HubPublisher struct {
	hub *Hub
}

func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, event Event) error {
	p.hub.Broadcast(event)
	return nil
}
