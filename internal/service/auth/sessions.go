package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID uuid.UUID) string { return "session:" + sessionID.String() }

// redisKeyStaffSessions indexes the live sessions of one staff member.
func redisKeyStaffSessions(staffID uuid.UUID) string { return "staff:sessions:" + staffID.String() }

// redisKeyLoginAttempts counts failed logins for an email.
func redisKeyLoginAttempts(email string) string { return "login:attempts:" + email }

// Session is the server-side record behind an access token. Permissions are
// already normalised when it is written.
type Session struct {
	ID          uuid.UUID `json:"-"`
	StaffID     uuid.UUID `json:"staffId"`
	FullAdmin   bool      `json:"fullAdmin"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionStore keeps sessions and login failure counters.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, s *Session) error
	RevokeStaff(ctx context.Context, staffID uuid.UUID) error

	FailedLogins(ctx context.Context, email string) (int64, error)
	RecordFailedLogin(ctx context.Context, email string, window time.Duration) (int64, error)
	ClearFailedLogins(ctx context.Context, email string) error
}

type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (r *RedisSessions) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionNotFound
	}
	idx := redisKeyStaffSessions(s.StaffID)
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisKeySession(s.ID), payload, ttl)
		p.SAdd(ctx, idx, s.ID.String())
		// The index lives as long as the newest session in it.
		p.Expire(ctx, idx, ttl)
		return nil
	})
	if err != nil {
		return apperr.Store("save session", err)
	}
	return nil
}

func (r *RedisSessions) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	raw, err := r.rdb.Get(ctx, redisKeySession(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, apperr.Store("load session", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apperr.Store("decode session", err)
	}
	s.ID = id
	return &s, nil
}

func (r *RedisSessions) Delete(ctx context.Context, s *Session) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisKeySession(s.ID))
		p.SRem(ctx, redisKeyStaffSessions(s.StaffID), s.ID.String())
		return nil
	})
	if err != nil {
		return apperr.Store("delete session", err)
	}
	return nil
}

func (r *RedisSessions) RevokeStaff(ctx context.Context, staffID uuid.UUID) error {
	idx := redisKeyStaffSessions(staffID)
	ids, err := r.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return apperr.Store("list staff sessions", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			keys = append(keys, redisKeySession(id))
		}
	}
	keys = append(keys, idx)
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return apperr.Store("revoke staff sessions", err)
	}
	return nil
}

func (r *RedisSessions) FailedLogins(ctx context.Context, email string) (int64, error) {
	n, err := r.rdb.Get(ctx, redisKeyLoginAttempts(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Store("read login attempts", err)
	}
	return n, nil
}

func (r *RedisSessions) RecordFailedLogin(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := redisKeyLoginAttempts(email)
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, apperr.Store("record login attempt", err)
	}
	return incr.Val(), nil
}

func (r *RedisSessions) ClearFailedLogins(ctx context.Context, email string) error {
	if err := r.rdb.Del(ctx, redisKeyLoginAttempts(email)).Err(); err != nil {
		return apperr.Store("clear login attempts", err)
	}
	return nil
}
