package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sirupsen/logrus"
)

// Worker читает события уведомлений из очереди Redis и доставляет их
// внешнему шлюзу (SMS/push) по вебхуку. Реальная отправка сообщений -
// ответственность шлюза.
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.GatewayTimeout,
		},
	}
}

// Start запускает горутину для обработки очереди уведомлений
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping notification worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части очереди,
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, notificationQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop notification event from Redis")
					time.Sleep(w.cfg.GatewayTimeout)
					continue
				}

				// result[0] - ключ, result[1] - значение
				payload := result[1]
				var event Event
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal notification event from Redis")
					continue
				}

				w.deliver(ctx, event, payload)
			}
		}
	}()
}

func (w *Worker) deliver(ctx context.Context, event Event, rawPayload string) {
	log := w.logger.WithField("event_user_id", event.UserID).WithField("event_type", event.Type)
	log.Debug("Delivering notification event...")

	if w.cfg.GatewayURL == "" {
		log.Warn("Gateway URL is not configured. Skipping notification delivery.")
		return
	}

	maxRetries := w.cfg.GatewayMaxRetries
	baseDelay := w.cfg.GatewayBaseDelay

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.GatewayURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create gateway request for event. Retries left: %d", maxRetries-1-i)
			continue
		}

		req.Header.Set("Content-Type", "application/json")

		// Добавляем HMAC подпись, если GATEWAY_SECRET задан
		if w.cfg.GatewaySecret != "" {
			signature := generateHMACSHA256(rawPayload, w.cfg.GatewaySecret)
			req.Header.Set("X-Notification-Signature", signature)
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to send notification for event. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2 // Экспоненциальная задержка
			continue
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Notification delivered successfully.")
			return
		} else {
			log.Warnf("Notification delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode, baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2
		}
	}

	log.Errorf("Failed to deliver notification for event after %d retries.", maxRetries)
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
