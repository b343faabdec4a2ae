// Package persistence selects and opens the decision store configured for the process.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/repository"
	"github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/internal/infrastructure/audit"
	"github.com/turtacn/credscore/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/credscore/internal/infrastructure/persistence/sqlstore"
	"github.com/turtacn/credscore/pkg/logger"
)

// DriverPgx selects the raw pgxpool store instead of gorm.
const DriverPgx = "pgx"

// Store is an opened decision repository plus its release function.
type Store struct {
	Repository repository.DecisionRepository
	Driver     string
	closeFn    func() error
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

type historyReader interface {
	FindByApplicant(ctx context.Context, applicantID string, limit int) ([]*models.DecisionRecord, error)
}

// History returns the newest decisions recorded for applicantID.
func (s *Store) History(ctx context.Context, applicantID string, limit int) ([]*models.DecisionRecord, error) {
	h, ok := s.Repository.(historyReader)
	if !ok {
		return nil, fmt.Errorf("decision history is not supported by the %s store", s.Driver)
	}
	return h.FindByApplicant(ctx, applicantID, limit)
}

// OpenStore opens the store named by cfg.Driver. Rows are HMAC-signed when hmacSecret is set.
// OpenStore 按配置打开决策存储（sqlite / postgres 走 gorm，pgx 走原生连接池）。
func OpenStore(ctx context.Context, cfg *config.DatabaseConfig, hmacSecret string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	var signer service.DecisionSigner
	if s := audit.NewHMACSigner(hmacSecret); s != nil {
		signer = s
	}

	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case sqlstore.DriverSQLite, sqlstore.DriverPostgres, "":
		db, err := sqlstore.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repository: sqlstore.NewGormDecisionRepository(db, signer, log),
			Driver:     db.Dialector.Name(),
			closeFn:    func() error { return sqlstore.Close(db) },
		}, nil

	case DriverPgx:
		conn, err := postgres.NewDBConnection(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewPgxDecisionRepository(conn.Pool(), signer, log)
		if cfg.AutoMigrate {
			if err := repo.EnsureSchema(ctx); err != nil {
				conn.Close()
				return nil, err
			}
		}
		return &Store{
			Repository: repo,
			Driver:     DriverPgx,
			closeFn: func() error {
				conn.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
