package session

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:session:"

// Redis stores sessions as hashes with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redis with short timeouts and returns a manager
// whose sessions expire after ttl.
func NewRedis(addr string, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

// Create opens a dashboard session for the employee.
func (r *Redis) Create(ctx context.Context, employeeID string) (Session, error) {
	now := time.Now().UTC()
	s := Session{
		ID:         uuid.NewString(),
		View:       ViewDashboard,
		EmployeeID: employeeID,
		Epoch:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, keyPrefix+s.ID, map[string]interface{}{
		"view":        s.View,
		"employee_id": s.EmployeeID,
		"epoch":       s.Epoch,
		"created_at":  s.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  s.UpdatedAt.Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, keyPrefix+s.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Get returns a session by id.
func (r *Redis) Get(ctx context.Context, id string) (Session, error) {
	fields, err := r.client.HGetAll(ctx, keyPrefix+id).Result()
	if err != nil {
		return Session{}, err
	}
	if len(fields) == 0 {
		return Session{}, ErrNotFound
	}
	s := Session{
		ID:         id,
		View:       fields["view"],
		EmployeeID: fields["employee_id"],
	}
	s.Epoch, _ = strconv.ParseUint(fields["epoch"], 10, 64)
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields["updated_at"])
	return s, nil
}

// Logout resets the session to the auth view and bumps the epoch. An
// expired or unknown session is a no-op.
func (r *Redis) Logout(ctx context.Context, id string) error {
	exists, err := r.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil || exists == 0 {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, keyPrefix+id, map[string]interface{}{
		"view":        ViewAuth,
		"employee_id": "",
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.HIncrBy(ctx, keyPrefix+id, "epoch", 1)
	_, err = pipe.Exec(ctx)
	return err
}

// Epoch returns the session's current epoch.
func (r *Redis) Epoch(ctx context.Context, id string) (uint64, error) {
	val, err := r.client.HGet(ctx, keyPrefix+id, "epoch").Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(val, 10, 64)
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}
