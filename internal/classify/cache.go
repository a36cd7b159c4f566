package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

const cacheKeyPrefix = "classification:"

// NewRedisClient connects to Redis using the provided configuration.
// Connectivity problems are logged, not fatal: the cache is optional.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return client
}

// CachedClassifier memoizes classification results in Redis, keyed by
// a SHA-256 of the raw ticket content. It caches classifier output
// only; store reads are never cached. Cache failures are best-effort:
// they log a warning and fall through to the live classifier.
type CachedClassifier struct {
	next   Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps a classifier with a Redis cache.
func NewCachedClassifier(next Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{next: next, client: client, ttl: ttl, logger: logger}
}

// Classify serves a cached classification when one exists, otherwise
// delegates and stores the result.
func (c *CachedClassifier) Classify(ctx context.Context, rawContent string) (domain.Classification, error) {
	key := cacheKey(rawContent)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var classification domain.Classification
		if unmarshalErr := json.Unmarshal([]byte(cached), &classification); unmarshalErr == nil {
			if classification.Validate() == nil {
				c.logger.Debug("classification cache hit", zap.String("key", key))
				return classification, nil
			}
		}
		// Unreadable entries are treated as misses.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("classification cache read failed", zap.Error(err))
	}

	classification, err := c.next.Classify(ctx, rawContent)
	if err != nil {
		return domain.Classification{}, err
	}

	encoded, err := json.Marshal(classification)
	if err == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.logger.Warn("classification cache write failed", zap.Error(setErr))
		}
	}

	return classification, nil
}

func cacheKey(rawContent string) string {
	sum := sha256.Sum256([]byte(rawContent))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
