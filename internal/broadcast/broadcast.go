package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChannelPrefix namespaces the per-session pub/sub channels
const ChannelPrefix = "verbclash:session:"

// RoomEvent tells the other participant of a session that it changed.
// Subscribers refetch the state; the event carries no game data.
type RoomEvent struct {
	ID         string    `json:"id"`
	SessionID  int64     `json:"session_id"`
	ResponseTo string    `json:"response_to"`
	UserID     int64     `json:"user_id"`
	At         time.Time `json:"at"`
}

// NewRoomEvent stamps an event with a fresh id
func NewRoomEvent(sessionID int64, responseTo string, userID int64, at time.Time) RoomEvent {
	return RoomEvent{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		ResponseTo: responseTo,
		UserID:     userID,
		At:         at.UTC(),
	}
}

// Channel is the pub/sub channel for a session
func Channel(sessionID int64) string {
	return fmt.Sprintf("%s%d", ChannelPrefix, sessionID)
}

// Publisher delivers room events to whatever fans them out
type Publisher interface {
	Publish(ctx context.Context, event RoomEvent) error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, RoomEvent) error { return nil }

type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes room events on Redis pub/sub
type RedisPublisher struct {
	client redisClient
}

// NewRedisPublisher connects to Redis and checks the connection
func NewRedisPublisher(addr, password string, db int) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: client}, nil
}

// Publish sends event as JSON on the session's channel
func (p *RedisPublisher) Publish(ctx context.Context, event RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode room event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(event.SessionID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish room event: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
