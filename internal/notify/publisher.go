package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	notificationQueueKey = "notification_events"
)

// Event - событие уведомления заявителю, передаваемое внешнему
// шлюзу доставки (SMS/push) через очередь
type Event struct {
	UserID     uuid.UUID `json:"user_id"`
	IncidentID uuid.UUID `json:"incident_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	EtaMinutes *int      `json:"eta_minutes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher - интерфейс для публикации событий уведомлений
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher - реализация Publisher, использующая очередь Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие уведомления в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка, воркер читает справа
	if err := p.redisClient.LPush(ctx, notificationQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification event to Redis: %w", err)
	}
	return nil
}
