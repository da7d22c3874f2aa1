package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicflow/content-service/internal/logger"
)

// connectionTimeout is the timeout for verifying the Redis connection.
const connectionTimeout = 5 * time.Second

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// ErrEmptyAddress is returned when the Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisRepository stores profile documents as JSON values keyed by user id.
type RedisRepository struct {
	client *redis.Client
	logger logger.Logger
	now    func() time.Time
}

// NewRedisRepository creates a profile repository over an existing client.
func NewRedisRepository(client *redis.Client, log logger.Logger) *RedisRepository {
	return &RedisRepository{
		client: client,
		logger: log,
		now:    time.Now,
	}
}

func key(userID string) string {
	return fmt.Sprintf("profile:user:%s", userID)
}

// Get returns the user's profile. A user with no stored profile gets the
// default profile, which is persisted before returning.
func (r *RedisRepository) Get(ctx context.Context, userID string) (Profile, error) {
	data, err := r.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		p := DefaultProfile(userID, r.now())
		if putErr := r.Put(ctx, userID, p); putErr != nil {
			return Profile{}, fmt.Errorf("materialize default profile: %w", putErr)
		}
		r.logger.Info("Created default profile",
			logger.String("user_id", userID),
		)
		return p, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return p, nil
}

// Put replaces the user's profile document.
func (r *RedisRepository) Put(ctx context.Context, userID string, p Profile) error {
	p.UserID = userID
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", userID, err)
	}

	if err := r.client.Set(ctx, key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("store profile %s: %w", userID, err)
	}
	return nil
}

// Update applies a partial change on top of the stored (or default) profile.
func (r *RedisRepository) Update(ctx context.Context, userID string, u Update) (Profile, error) {
	current, err := r.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	updated := current.apply(u, r.now())
	if err := r.Put(ctx, userID, updated); err != nil {
		return Profile{}, err
	}
	return updated, nil
}
