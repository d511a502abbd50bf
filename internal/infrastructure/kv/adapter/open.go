package adapter

import (
	"context"
	"fmt"

	"github.com/op/go-logging"

	"go-chatsync/internal/config"
	"go-chatsync/internal/infrastructure/database"
	"go-chatsync/internal/infrastructure/kv/port"
)

var log = logging.MustGetLogger("kv")

// Open constructs the Store selected by opts.StorageDriver.
func Open(ctx context.Context, opts *config.Options) (port.Store, error) {
	log.Infof("opening %s storage", opts.StorageDriver)
	switch opts.StorageDriver {
	case config.DriverMemory, "":
		return NewMemoryStore(), nil
	case config.DriverRedis:
		return NewRedisStore(opts.RedisURL)
	case config.DriverBolt:
		return NewBoltStore(opts.BoltPath)
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, opts.DBURL)
		if err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil
	case config.DriverDynamoDB:
		return NewDynamoStore(ctx, DynamoOptions{
			Table:    opts.DynamoTable,
			Region:   opts.AWSRegion,
			Endpoint: opts.DynamoEndpoint,
		})
	default:
		return nil, fmt.Errorf("kv: unknown storage driver %q", opts.StorageDriver)
	}
}
