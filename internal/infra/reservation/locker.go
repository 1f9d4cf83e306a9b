package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

const (
	keyPrefix           = "grooming:slot-hold"
	defaultWaitTimeout  = 2 * time.Second
	defaultPollInterval = 50 * time.Millisecond
)

var (
	// ErrSlotHeld возвращается, когда слот удерживается другим запросом дольше времени ожидания
	ErrSlotHeld = errors.New("reservation: slot is held by another booking")

	// ErrUnavailable возвращается при недоступности Redis
	ErrUnavailable = errors.New("reservation: store unavailable")
)

// releaseScript удаляет ключ, только если он принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseFunc снимает удержание слота
type ReleaseFunc func(ctx context.Context) error

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчики удержаний
type Metrics interface {
	IncReservation(result string)
}

// RedisLocker удерживает слот (дата, время) на короткий TTL, пока идет запись в БД
type RedisLocker struct {
	rdb          redis.UniversalClient
	ttl          time.Duration
	waitTimeout  time.Duration
	pollInterval time.Duration
	metrics      Metrics
	logger       Logger
}

// NewRedisLocker создает новый экземпляр блокировщика
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, metrics Metrics, logger Logger) *RedisLocker {
	return &RedisLocker{
		rdb:          rdb,
		ttl:          ttl,
		waitTimeout:  defaultWaitTimeout,
		pollInterval: defaultPollInterval,
		metrics:      metrics,
		logger:       logger,
	}
}

// WithWait задает время ожидания освобождения слота
func (l *RedisLocker) WithWait(timeout, poll time.Duration) *RedisLocker {
	l.waitTimeout = timeout
	l.pollInterval = poll
	return l
}

// Key возвращает ключ удержания для слота
func Key(date time.Time, clock types.TimeString) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, date.Format(domain.DateFormat), clock)
}

// Acquire удерживает слот. Если слот занят, ждет его освобождения не дольше waitTimeout
func (l *RedisLocker) Acquire(ctx context.Context, date time.Time, clock types.TimeString) (ReleaseFunc, error) {
	key := Key(date, clock)
	token := uuid.NewString()
	deadline := time.Now().Add(l.waitTimeout)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			l.logger.Error("Reservation: failed to acquire %s: %v", key, err)
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		if ok {
			l.incMetric("acquired")
			return func(ctx context.Context) error {
				if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
					l.logger.Warn("Reservation: failed to release %s: %v", key, err)
					return fmt.Errorf("%w: %v", ErrUnavailable, err)
				}
				return nil
			}, nil
		}

		l.incMetric("busy")

		if !time.Now().Before(deadline) {
			l.logger.Warn("Reservation: %s still held after %s", key, l.waitTimeout)
			return nil, ErrSlotHeld
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

func (l *RedisLocker) incMetric(result string) {
	if l.metrics != nil {
		l.metrics.IncReservation(result)
	}
}

// NoopLocker используется, когда Redis отключен: сериализацию обеспечивает транзакция БД
type NoopLocker struct{}

// Acquire всегда успешен
func (NoopLocker) Acquire(context.Context, time.Time, types.TimeString) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
