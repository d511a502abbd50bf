package config

import (
	"errors"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Storage drivers accepted by --storage / STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

// Options is the runtime configuration shared by the binaries. Every option can be
// given as a flag or through the environment (a .env file is loaded first).
type Options struct {
	Addr string `long:"addr" env:"ADDR" default:":8080" description:"HTTP listen address of the mock backend"`

	StorageDriver  string `long:"storage" env:"STORAGE_DRIVER" default:"memory" choice:"memory" choice:"redis" choice:"bolt" choice:"postgres" choice:"dynamodb" description:"durable key-value store backing conversation logs"`
	RedisURL       string `long:"redis-url" env:"REDIS_URL" description:"redis:// URL used by the redis driver and the task queue"`
	DBURL          string `long:"db-url" env:"DB_URL" description:"postgres DSN used by the postgres driver"`
	BoltPath       string `long:"bolt-path" env:"BOLT_PATH" default:"data/chat.bolt" description:"file used by the bolt driver"`
	DynamoTable    string `long:"dynamodb-table" env:"DYNAMODB_TABLE" default:"ChatLogs" description:"table used by the dynamodb driver"`
	DynamoEndpoint string `long:"dynamodb-endpoint" env:"DYNAMODB_ENDPOINT" description:"custom endpoint, e.g. DynamoDB Local"`
	AWSRegion      string `long:"aws-region" env:"AWS_REGION" default:"us-east-1" description:"AWS region for the dynamodb driver"`

	Latency time.Duration `long:"latency" env:"SIMULATED_LATENCY" default:"500ms" description:"artificial round-trip latency of the simulated service"`
	Jitter  time.Duration `long:"jitter" env:"SIMULATED_JITTER" default:"0s" description:"random extra latency added on top of --latency"`

	QueueEnabled     bool   `long:"queue" env:"QUEUE_ENABLED" description:"enable the queued send endpoint and run the task worker"`
	AsynqConcurrency int    `long:"asynq-concurrency" env:"ASYNQ_CONCURRENCY" default:"10" description:"worker concurrency"`
	AsynqQueues      string `long:"asynq-queues" env:"ASYNQ_QUEUES" description:"queue weights, e.g. chat=6,default=1"`

	APIURL string `long:"api-url" env:"API_URL" description:"base URL of a running mock backend; empty uses the in-process simulated service"`
	Sender string `long:"sender" env:"CHAT_SENDER" default:"You" description:"sender name used by the demo client"`

	LogLevel string `long:"loglevel" env:"LOG_LEVEL" default:"info" description:"set the logging level [debug, info, notice, warning, error, critical]"`
	LogFile  string `long:"logfile" env:"LOG_FILE" description:"also write logs to this rotated file"`
}

// Load reads .env (when present) and parses args into Options.
// A help request is reported as ErrHelp so callers can exit cleanly.
func Load(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, err
	}
	return &opts, nil
}

// ErrHelp signals that usage was printed and the program should stop.
var ErrHelp = errors.New("config: help requested")
