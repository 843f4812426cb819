package database

import (
	"context"
	"fmt"
	"time"

	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
// The ping is retried a few times since the server usually starts alongside the database.
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	var pingErr error
	for attempt := 1; attempt <= 3; attempt++ {
		pingCtx, cancelPing := context.WithTimeout(ctx, timeout)
		pingErr = client.Ping(pingCtx, nil)
		cancelPing()
		if pingErr == nil {
			return client, nil
		}
		logger.Warnf("mongo ping attempt %d failed: %v", attempt, pingErr)
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("mongo ping: %w", pingErr)
}
