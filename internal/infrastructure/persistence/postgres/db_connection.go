// Package postgres provides the pgx-backed decision store: pool lifecycle, health checks and queries.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/pkg/logger"
)

const (
	defaultConnectTimeout = 10 * time.Second
	pingTimeout           = 5 * time.Second
	// 超过该延迟时记录告警
	slowPingThreshold = 100 * time.Millisecond
)

// DBConnection owns the pgx pool behind the decision repository.
type DBConnection struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewDBConnection builds the pool from cfg and pings it before returning.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	log = log.WithComponent("postgres")

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	timeout := defaultConnectTimeout
	if cfg.ConnTimeout > 0 {
		timeout = time.Duration(cfg.ConnTimeout) * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("open decision store pool: %w", err)
	}
	conn := &DBConnection{pool: pool, logger: log}
	if err := conn.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info(ctx, "Decision store pool ready",
		logger.String("host", cfg.Host),
		logger.String("database", cfg.Database),
		logger.Int64("max_conns", int64(pc.MaxConns)),
	)
	return conn, nil
}

func poolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse decision store dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pc.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = time.Duration(cfg.MaxConnIdleTime) * time.Second
	}
	return pc, nil
}

// Pool exposes the pool to the repository.
func (db *DBConnection) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping checks connectivity and warns when the round trip is slow.
func (db *DBConnection) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	began := time.Now()
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("decision store ping: %w", err)
	}
	if rtt := time.Since(began); rtt > slowPingThreshold {
		db.logger.Warn(ctx, "Decision store responding slowly", logger.Duration("rtt", rtt))
	}
	return nil
}

// Close waits for acquired connections and shuts the pool down.
func (db *DBConnection) Close() {
	st := db.pool.Stat()
	db.logger.Info(context.Background(), "Closing decision store pool",
		logger.Int64("acquired_conns", int64(st.AcquiredConns())))
	db.pool.Close()
}

//Personal.AI order the ending
