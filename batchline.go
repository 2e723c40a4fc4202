package batchline

import (
	"embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/batchlinehq/batchline/config"
	"github.com/batchlinehq/batchline/database"
	redis_db "github.com/batchlinehq/batchline/internal/redis-db"
)

// Batchline represents the main struct for the Batchline application.
type Batchline struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	now        func() time.Time
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewBatchline initializes a new instance of Batchline with the provided
// database datasource. It fetches the configuration and initializes the Redis
// client and the task queue.
//
// Parameters:
// - db database.IDataSource: The datasource for database operations.
//
// Returns:
// - *Batchline: A pointer to the newly created Batchline instance.
// - error: An error if any of the initialization steps fail.
func NewBatchline(db database.IDataSource) (*Batchline, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)

	newBatchline := &Batchline{datasource: db, queue: newQueue, redis: redisClient.Client(), now: time.Now}
	return newBatchline, nil
}
