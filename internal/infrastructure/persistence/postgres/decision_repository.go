package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/repository"
	"github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

const insertPredictionSQL = `
INSERT INTO predictions (
    decision_id, applicant_id, credit_score, default_probability, risk_level, explanation,
    grade_numeric, int_rate, inq_last_6mths, revol_util, installment, installment_to_income,
    loan_to_income, dti, open_acc, loan_amnt, annual_inc, credit_history_months,
    created_at, request_ip, response_time_ms, signature
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

const aggregateSQL = `
SELECT COUNT(*),
       COALESCE(AVG(credit_score), 0)::float8,
       COUNT(*) FILTER (WHERE created_at >= $1)
FROM predictions`

const tierCountSQL = `SELECT risk_level, COUNT(*) FROM predictions GROUP BY risk_level`

// 历史查询，可空列统一 COALESCE
const historySQL = `
SELECT COALESCE(decision_id, ''), applicant_id, credit_score, default_probability, risk_level,
       COALESCE(explanation, ''),
       COALESCE(grade_numeric, 0), COALESCE(int_rate, 0), COALESCE(inq_last_6mths, 0),
       COALESCE(revol_util, 0), COALESCE(installment, 0), COALESCE(installment_to_income, 0),
       COALESCE(loan_to_income, 0), COALESCE(dti, 0), COALESCE(open_acc, 0),
       COALESCE(loan_amnt, 0), COALESCE(annual_inc, 0), COALESCE(credit_history_months, 0),
       created_at, COALESCE(request_ip, ''), COALESCE(response_time_ms, 0)
FROM predictions
WHERE applicant_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

// PgxDecisionRepository stores decisions through a raw pgx pool.
type PgxDecisionRepository struct {
	pool   *pgxpool.Pool
	signer service.DecisionSigner
	logger logger.Logger
}

var _ repository.DecisionRepository = (*PgxDecisionRepository)(nil)

// NewPgxDecisionRepository creates a repository. signer may be nil.
func NewPgxDecisionRepository(pool *pgxpool.Pool, signer service.DecisionSigner, log logger.Logger) *PgxDecisionRepository {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &PgxDecisionRepository{
		pool:   pool,
		signer: signer,
		logger: log.WithComponent("PgxDecisionRepository"),
	}
}

// EnsureSchema creates the predictions table and its indexes if missing.
func (r *PgxDecisionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure predictions schema: %w", err)
	}
	return nil
}

// AppendDecision inserts one prediction row.
func (r *PgxDecisionRepository) AppendDecision(ctx context.Context, record *models.DecisionRecord) error {
	if record == nil || record.Decision == nil {
		return fmt.Errorf("decision record is required")
	}
	d := record.Decision
	a := record.Applicant

	var signature string
	if r.signer != nil {
		sig, err := r.signer.Sign(record)
		if err != nil {
			r.logger.Warn(ctx, "Failed to sign decision", logger.Err(err),
				logger.DecisionID(d.ID.String()))
		} else {
			signature = sig
		}
	}

	_, err := r.pool.Exec(ctx, insertPredictionSQL,
		d.ID.String(), d.ApplicantID, d.Score, d.Probability, string(d.Tier), d.Explanation,
		a.GradeNumeric, a.IntRate, a.InqLast6Mths, a.RevolUtil, a.Installment, a.InstallmentToIncome,
		a.LoanToIncome, a.DTI, a.OpenAcc, a.LoanAmnt, a.AnnualInc, a.CreditHistoryMonths,
		d.DecidedAt.UTC(), record.RequestIP, d.LatencyMillis(), signature,
	)
	return err
}

// AggregateStats computes totals, per-tier counts, the mean score and the 24h count as of now.
func (r *PgxDecisionRepository) AggregateStats(ctx context.Context, now time.Time) (*models.DecisionStats, error) {
	stats := models.NewDecisionStats()

	var avg float64
	since := now.UTC().Add(-constants.StatsWindow)
	if err := r.pool.QueryRow(ctx, aggregateSQL, since).Scan(&stats.TotalPredictions, &avg, &stats.Last24h); err != nil {
		return nil, err
	}
	stats.AvgCreditScore = service.RoundHalfEven(avg, 2)

	rows, err := r.pool.Query(ctx, tierCountSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tier string
		var count int64
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, err
		}
		stats.ByRiskLevel[tier] = count
	}
	return stats, rows.Err()
}

// FindByApplicant returns up to limit decisions for applicantID, newest first.
// A non-positive limit returns every row.
func (r *PgxDecisionRepository) FindByApplicant(ctx context.Context, applicantID string, limit int) ([]*models.DecisionRecord, error) {
	var lim interface{}
	if limit > 0 {
		lim = limit
	}
	rows, err := r.pool.Query(ctx, historySQL, applicantID, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DecisionRecord
	for rows.Next() {
		var (
			id, tier string
			latency  float64
			d        models.Decision
			a        models.ApplicantRecord
			rec      models.DecisionRecord
		)
		if err := rows.Scan(&id, &d.ApplicantID, &d.Score, &d.Probability, &tier, &d.Explanation,
			&a.GradeNumeric, &a.IntRate, &a.InqLast6Mths, &a.RevolUtil, &a.Installment, &a.InstallmentToIncome,
			&a.LoanToIncome, &a.DTI, &a.OpenAcc, &a.LoanAmnt, &a.AnnualInc, &a.CreditHistoryMonths,
			&d.DecidedAt, &rec.RequestIP, &latency,
		); err != nil {
			return nil, err
		}
		d.ID, _ = uuid.Parse(id)
		d.Tier = models.RiskTier(tier)
		d.Latency = time.Duration(latency * float64(time.Millisecond))
		a.ApplicantID = d.ApplicantID
		rec.Decision = &d
		rec.Applicant = a
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Ping checks the pool.
func (r *PgxDecisionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
