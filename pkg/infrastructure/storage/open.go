package storage

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Config struct {
	Driver        string
	Path          string
	RedisAddress  string
	MySQLDSN      string
	MongoURI      string
	MongoDatabase string
	RetryTimeout  time.Duration
}

// Open connects the configured backend. Network backends are retried with
// exponential backoff until RetryTimeout elapses.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		return NewFileStore(cfg.Path)
	case DriverRedis:
		return connectWithRetry(ctx, cfg, func(ctx context.Context) (Store, error) {
			return NewRedisStore(ctx, cfg.RedisAddress)
		})
	case DriverMySQL:
		return connectWithRetry(ctx, cfg, func(ctx context.Context) (Store, error) {
			return NewMySQLStore(ctx, cfg.MySQLDSN)
		})
	case DriverMongo:
		return connectWithRetry(ctx, cfg, func(ctx context.Context) (Store, error) {
			return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		})
	}
	return nil, errors.Wrap(ErrUnknownDriver, cfg.Driver)
}

func connectWithRetry(ctx context.Context, cfg Config, connect func(ctx context.Context) (Store, error)) (Store, error) {
	var store Store
	err := Retry(ctx, cfg.RetryTimeout, "storage", func() error {
		var err error
		store, err = connect(ctx)
		return err
	})
	return store, err
}

// Retry runs operation until it succeeds, ctx ends or timeout elapses.
func Retry(ctx context.Context, timeout time.Duration, what string, operation func() error) error {
	policy := backoff.NewExponentialBackOff()
	if timeout > 0 {
		policy.MaxElapsedTime = timeout
	}

	return backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		log.WithError(err).WithFields(log.Fields{
			"target": what,
			"retry":  next.String(),
		}).Warn("connection failed, retrying")
	})
}
