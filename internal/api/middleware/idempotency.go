package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const idempotencyTTL = 24 * time.Hour

// IdempotencyRecord is what a completed submission left behind for its key.
type IdempotencyRecord struct {
	RequestHash string `json:"requestHash"`
	OrderID     string `json:"orderId"`
}

// IdempotencyStore keeps idempotency records in Redis so a retried checkout
// submit does not create a second order.
type IdempotencyStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) *IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotencyStore{client: client, logger: logger}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*IdempotencyRecord, error) {
	data, err := s.client.Get(ctx, idempotencyRedisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var record IdempotencyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal idempotency record failed: %w", err)
	}
	return &record, nil
}

// Save records the order created for a key. Best effort; a failed save only
// costs idempotency on retry.
func (s *IdempotencyStore) Save(ctx context.Context, key, requestHash, orderID string) {
	data, err := json.Marshal(IdempotencyRecord{RequestHash: requestHash, OrderID: orderID})
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, idempotencyRedisKey(key), data, idempotencyTTL).Err(); err != nil {
		s.logger.Warn("Failed to store idempotency key", zap.Error(err))
	}
}

func idempotencyRedisKey(key string) string {
	return "idempotency:" + key
}

// IdempotencyMiddleware handles idempotency key validation for submissions.
func IdempotencyMiddleware(store *IdempotencyStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to POST/PUT/PATCH requests
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" || store == nil {
			c.Next()
			return
		}

		// Read request body
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body for idempotency", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
			c.Abort()
			return
		}

		// Restore body for handler
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		// Calculate request hash
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		// Check if key exists
		existing, err := store.Get(c.Request.Context(), idempotencyKey)
		if err != nil {
			logger.Error("Failed to check idempotency key", zap.Error(err))
			c.Next()
			return
		}

		if existing != nil {
			// Key exists - check if request hash matches
			if existing.RequestHash != requestHash {
				// Same key, different payload - conflict
				c.JSON(http.StatusConflict, gin.H{
					"error": "idempotency key conflict: same key used with different payload",
				})
				c.Abort()
				return
			}

			// Same key, same payload - return existing order
			c.Set("idempotency_existing_order_id", existing.OrderID)
			c.Set("idempotency_key_used", true)
		} else {
			// New key - will be stored after order creation
			c.Set("idempotency_key", idempotencyKey)
			c.Set("idempotency_request_hash", requestHash)
		}

		c.Next()
	}
}

// GetIdempotencyInfo retrieves idempotency information from context
func GetIdempotencyInfo(c *gin.Context) (key string, requestHash string, existingOrderID string, isExisting bool) {
	if existingID, exists := c.Get("idempotency_existing_order_id"); exists {
		if id, ok := existingID.(string); ok {
			return "", "", id, true
		}
	}

	keyVal, _ := c.Get("idempotency_key")
	hashVal, _ := c.Get("idempotency_request_hash")

	key, _ = keyVal.(string)
	requestHash, _ = hashVal.(string)

	return key, requestHash, "", false
}
