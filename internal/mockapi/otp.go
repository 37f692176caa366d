package mockapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
)

// OTPStore keeps one pending code per email.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Verify consumes the code on success. After maxAttempts failures the
	// pending code is discarded.
	Verify(ctx context.Context, email, code string, maxAttempts int) error
}

// GenerateCode returns a random numeric code of length n.
func GenerateCode(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

type memoryOTP struct {
	code      string
	expiresAt time.Time
	attempts  int
}

type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]*memoryOTP
	now   func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{codes: make(map[string]*memoryOTP), now: time.Now}
}

func (m *MemoryOTPStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[emailKey(email)] = &memoryOTP{code: code, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryOTPStore) Verify(_ context.Context, email, code string, maxAttempts int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := emailKey(email)
	otp, ok := m.codes[key]
	if !ok || m.now().After(otp.expiresAt) {
		delete(m.codes, key)
		return ErrOTPNotFound
	}
	otp.attempts++
	if otp.attempts > maxAttempts {
		delete(m.codes, key)
		return ErrOTPMaxAttempts
	}
	if otp.code != code {
		return ErrOTPInvalid
	}
	delete(m.codes, key)
	return nil
}

// RedisOTPStore keeps codes under otp:<email> with an attempts counter at
// otp:att:<email>, both expiring with the code.
type RedisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKeys(email string) (string, string) {
	k := emailKey(email)
	return "otp:" + k, "otp:att:" + k
}

func (s *RedisOTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	otpKey, attemptsKey := otpKeys(email)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, otpKey, code, ttl)
	pipe.Set(ctx, attemptsKey, 0, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store otp in redis: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) Verify(ctx context.Context, email, code string, maxAttempts int) error {
	otpKey, attemptsKey := otpKeys(email)

	stored, err := s.client.Get(ctx, otpKey).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("get otp from redis: %w", err)
	}

	attempts, err := s.client.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return fmt.Errorf("increment otp attempts: %w", err)
	}
	if attempts > int64(maxAttempts) {
		s.client.Del(ctx, otpKey, attemptsKey)
		return ErrOTPMaxAttempts
	}
	if stored != code {
		return ErrOTPInvalid
	}
	s.client.Del(ctx, otpKey, attemptsKey)
	return nil
}
