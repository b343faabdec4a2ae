package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/repository"
	"github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/logger"
	"gorm.io/gorm"
)

// GormDecisionRepository is a gorm implementation of repository.DecisionRepository.
// GormDecisionRepository 基于 gorm 的决策仓储实现。
type GormDecisionRepository struct {
	db     *gorm.DB
	signer service.DecisionSigner
	logger logger.Logger
}

// NewGormDecisionRepository creates a repository. signer may be nil.
func NewGormDecisionRepository(db *gorm.DB, signer service.DecisionSigner, log logger.Logger) *GormDecisionRepository {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &GormDecisionRepository{
		db:     db,
		signer: signer,
		logger: log.WithComponent("GormDecisionRepository"),
	}
}

// AppendDecision inserts one prediction row. Rows are never updated.
func (r *GormDecisionRepository) AppendDecision(ctx context.Context, record *models.DecisionRecord) error {
	if record == nil || record.Decision == nil {
		return fmt.Errorf("decision record is required")
	}
	dbm := fromDomain(record)
	if r.signer != nil {
		sig, err := r.signer.Sign(record)
		if err != nil {
			// 签名失败不阻止落库
			r.logger.Warn(ctx, "Failed to sign decision", logger.Err(err),
				logger.DecisionID(dbm.DecisionID))
		} else {
			dbm.Signature = sig
		}
	}
	return r.db.WithContext(ctx).Create(dbm).Error
}

var _ repository.DecisionRepository = (*GormDecisionRepository)(nil)

type tierCount struct {
	RiskLevel string
	Count     int64
}

// AggregateStats computes totals, per-tier counts, the mean score and the 24h count as of now.
func (r *GormDecisionRepository) AggregateStats(ctx context.Context, now time.Time) (*models.DecisionStats, error) {
	db := r.db.WithContext(ctx).Model(&predictionDBM{})
	stats := models.NewDecisionStats()

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalPredictions).Error; err != nil {
		return nil, err
	}
	if stats.TotalPredictions == 0 {
		return stats, nil
	}

	var counts []tierCount
	if err := db.Session(&gorm.Session{}).
		Select("risk_level, COUNT(*) AS count").
		Group("risk_level").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ByRiskLevel[c.RiskLevel] = c.Count
	}

	var avg struct{ Avg float64 }
	if err := db.Session(&gorm.Session{}).
		Select("AVG(credit_score) AS avg").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AvgCreditScore = service.RoundHalfEven(avg.Avg, 2)

	since := now.UTC().Add(-constants.StatsWindow)
	if err := db.Session(&gorm.Session{}).
		Where("created_at >= ?", since).
		Count(&stats.Last24h).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Ping checks the connection.
func (r *GormDecisionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// FindByApplicant returns the stored inputs and decisions for an applicant, newest first.
func (r *GormDecisionRepository) FindByApplicant(ctx context.Context, applicantID string, limit int) ([]*models.DecisionRecord, error) {
	var rows []predictionDBM
	q := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*models.DecisionRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toRecord())
	}
	return out, nil
}
