package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/infrastructure/storage"
)

const appID = "farmconnect"

type config struct {
	HTTPAddress string `envconfig:"http_address" default:":8080"`
	GRPCAddress string `envconfig:"grpc_address" default:":8081"`
	LogLevel    string `envconfig:"log_level" default:"info"`

	StorageDriver  string        `envconfig:"storage_driver" default:"file"`
	StoragePath    string        `envconfig:"storage_path" default:"data"`
	RedisAddress   string        `envconfig:"redis_address" default:"localhost:6379"`
	MySQLDSN       string        `envconfig:"mysql_dsn"`
	MongoURI       string        `envconfig:"mongo_uri" default:"mongodb://localhost:27017"`
	MongoDatabase  string        `envconfig:"mongo_database" default:"farmconnect"`
	ConnectTimeout time.Duration `envconfig:"connect_timeout" default:"30s"`
	DBQueryTimeout time.Duration `envconfig:"db_query_timeout" default:"5s"`

	AMQPURL      string `envconfig:"amqp_url"`
	AMQPExchange string `envconfig:"amqp_exchange" default:"farmconnect.events"`

	JWTSecret       string        `envconfig:"jwt_secret"`
	TokenTTL        time.Duration `envconfig:"token_ttl" default:"12h"`
	MonitorInterval time.Duration `envconfig:"monitor_interval" default:"30s"`
	RateLimit       int           `envconfig:"rate_limit" default:"30"`
	RateBurst       int           `envconfig:"rate_burst" default:"10"`
	AllowedOrigins  []string      `envconfig:"allowed_origins" default:"*"`
	BcryptCost      int           `envconfig:"bcrypt_cost" default:"10"`
}

// parseEnvs reads FARMCONNECT_* variables, after loading .env when present.
func parseEnvs() (*config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	c := new(config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	return c, nil
}

func (c *config) storage() storage.Config {
	return storage.Config{
		Driver:        c.StorageDriver,
		Path:          c.StoragePath,
		RedisAddress:  c.RedisAddress,
		MySQLDSN:      c.MySQLDSN,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
		RetryTimeout:  c.ConnectTimeout,
	}
}

func initLogger(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).WithField("level", level).Warn("unknown log level, using info")
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
