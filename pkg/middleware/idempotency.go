package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader is the header name for the idempotency key
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// IdempotencyKeyPrefix is the Redis key prefix
	IdempotencyKeyPrefix = "idempotency:"
	// DefaultIdempotencyTTL covers the window in which a client may
	// retry a reservation after a network failure
	DefaultIdempotencyTTL = 24 * time.Hour
	// DefaultProcessingTTL bounds how long an in-flight request blocks
	// a duplicate with the same key
	DefaultProcessingTTL = 60 * time.Second
)

var (
	ErrRequestInProgress = errors.New("request in progress")
)

// IdempotencyStatus represents the state of an idempotency record
type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord stores the state of an idempotent request
type IdempotencyRecord struct {
	Key          string            `json:"key"`
	Status       IdempotencyStatus `json:"status"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RedisClient is the subset of go-redis used by the middleware
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Redis         RedisClient
	TTL           time.Duration
	ProcessingTTL time.Duration
}

// DefaultIdempotencyConfig returns default configuration
func DefaultIdempotencyConfig(client RedisClient) *IdempotencyConfig {
	return &IdempotencyConfig{
		Redis:         client,
		TTL:           DefaultIdempotencyTTL,
		ProcessingTTL: DefaultProcessingTTL,
	}
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated write carrying
// the same X-Idempotency-Key, so network-level retries of Reserve cannot
// admit twice. Requests without the header pass through untouched.
func Idempotency(cfg *IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || cfg == nil || cfg.Redis == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := IdempotencyKeyPrefix + key

		// Claim the key; losing the race means another request with
		// the same key is in flight or already done.
		record := IdempotencyRecord{
			Key:       key,
			Status:    StatusProcessing,
			CreatedAt: time.Now(),
		}
		data, _ := json.Marshal(record)

		acquired, err := cfg.Redis.SetNX(ctx, redisKey, data, cfg.ProcessingTTL).Result()
		if err != nil {
			// Redis being down must not block bookings.
			c.Next()
			return
		}

		if !acquired {
			stored, err := cfg.Redis.Get(ctx, redisKey).Result()
			if err != nil {
				c.Next()
				return
			}
			var prior IdempotencyRecord
			if err := json.Unmarshal([]byte(stored), &prior); err != nil {
				c.Next()
				return
			}
			if prior.Status == StatusProcessing {
				c.JSON(http.StatusConflict, gin.H{"error": ErrRequestInProgress.Error()})
				c.Abort()
				return
			}
			c.Data(prior.ResponseCode, "application/json", []byte(prior.ResponseBody))
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= http.StatusInternalServerError {
			// Do not pin server failures; let the client retry fresh.
			cfg.Redis.Del(ctx, redisKey)
			return
		}

		record.Status = StatusCompleted
		record.ResponseCode = status
		record.ResponseBody = writer.body.String()
		data, _ = json.Marshal(record)
		cfg.Redis.Set(ctx, redisKey, data, cfg.TTL)
	}
}
