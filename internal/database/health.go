package database

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health pings the database and reports pool statistics
func Health(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := map[string]string{}
	if err := pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		return stats, err
	}

	s := pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(s.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(s.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(s.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(s.MaxConns()))
	return stats, nil
}
