// Package redis provides a Redis-backed translation store.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/polyglot/internal/domain"
)

const (
	defaultKeyPrefix = "polyglot:"
	pingTimeout      = 5 * time.Second
	detectedSource   = "auto"
)

// Config holds configuration for the Redis store.
type Config struct {
	URL       string `env:"REDIS_URL"        envDefault:"redis://localhost:6379"`
	TTL       int    `env:"REDIS_TTL"        envDefault:"86400"` // seconds, 0 = no expiration
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"polyglot:"`
}

// Store is a Redis-backed TranslationStore.
//
// A result is written under every fingerprint that should find it: the detected
// source key when the source language was not specified, the explicit source key,
// and an alignment-free copy next to the aligned one. The first write for a key wins.
type Store struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewStore connects to Redis and creates a store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err = client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewStoreFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewStoreFromClient creates a store from an existing Redis client.
func NewStoreFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &Store{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Key returns the Redis key of a fingerprint.
func (s *Store) Key(fp domain.Fingerprint) string {
	from := fp.FromLanguage
	if from == "" {
		from = detectedSource
	}

	alignment := "0"
	if fp.WithAlignment {
		alignment = "1"
	}

	hash := sha256.Sum256([]byte(fp.SourceText))

	return s.keyPrefix + strings.Join([]string{
		fp.Engine, from, fp.ToLanguage, alignment, hex.EncodeToString(hash[:]),
	}, ":")
}

// Lookup returns the stored translation for a fingerprint.
func (s *Store) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.TranslationResult, error) {
	val, err := s.client.Get(ctx, s.Key(fp)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.TranslationResult
	if err = json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored translation: %w", err)
	}

	return &result, nil
}

// Save stores a translation result under every matching fingerprint.
func (s *Store) Save(ctx context.Context, result *domain.TranslationResult, fromWasSpecified bool) error {
	sources := []string{result.FromLanguage}
	if !fromWasSpecified {
		sources = append(sources, "")
	}

	withoutAlignment := *result
	withoutAlignment.Alignment = nil
	plain, err := json.Marshal(&withoutAlignment)
	if err != nil {
		return fmt.Errorf("failed to encode translation: %w", err)
	}

	var aligned []byte
	if result.Alignment != nil {
		if aligned, err = json.Marshal(result); err != nil {
			return fmt.Errorf("failed to encode translation: %w", err)
		}
	}

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, from := range sources {
			fp := domain.Fingerprint{
				ToLanguage:   result.ToLanguage,
				SourceText:   result.SourceText,
				FromLanguage: from,
				Engine:       result.Engine,
			}
			pipe.SetNX(ctx, s.Key(fp), string(plain), s.ttl)

			if aligned != nil {
				fp.WithAlignment = true
				pipe.SetNX(ctx, s.Key(fp), string(aligned), s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
