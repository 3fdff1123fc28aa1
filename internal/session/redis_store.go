// Package session guarda os refresh tokens emitidos no login.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indica refresh token desconhecido, expirado ou revogado
var ErrSessionNotFound = errors.New("sessão não encontrada")

// RefreshSession é o estado associado a um refresh token
type RefreshSession struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedisStore guarda sessões de refresh no Redis, chaveadas pelo hash do token.
// O token em claro nunca toca o armazenamento.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "refresh:", ttl: ttl}, nil
}

// NewRedisStoreWithClient monta o store sobre um cliente existente (testes)
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "refresh:", ttl: ttl}
}

func (s *RedisStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + fmt.Sprintf("%x", sum)
}

func (s *RedisStore) Save(ctx context.Context, token string, sess RefreshSession) error {
	sess.CreatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*RefreshSession, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess RefreshSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Rotate troca o token antigo pelo novo em uma única passada; o token antigo
// deixa de valer mesmo se a gravação do novo falhar.
func (s *RedisStore) Rotate(ctx context.Context, oldToken, newToken string) (*RefreshSession, error) {
	sess, err := s.Get(ctx, oldToken)
	if err != nil {
		return nil, err
	}

	if err := s.Delete(ctx, oldToken); err != nil {
		return nil, err
	}

	if err := s.Save(ctx, newToken, *sess); err != nil {
		return nil, err
	}

	return sess, nil
}
