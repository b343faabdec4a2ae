package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/constants"
)

// predictionDBM is the database model for the predictions table.
type predictionDBM struct {
	ID                  uint    `gorm:"primaryKey;autoIncrement"`
	DecisionID          string  `gorm:"type:varchar(36);uniqueIndex"`
	ApplicantID         string  `gorm:"type:varchar(128);index;not null"`
	CreditScore         int     `gorm:"not null"`
	DefaultProbability  float64 `gorm:"not null"`
	RiskLevel           string  `gorm:"type:varchar(16);index;not null"`
	Explanation         string  `gorm:"type:text"`
	GradeNumeric        float64
	IntRate             float64
	InqLast6Mths        float64 `gorm:"column:inq_last_6mths"`
	RevolUtil           float64
	Installment         float64
	InstallmentToIncome float64
	LoanToIncome        float64
	DTI                 float64 `gorm:"column:dti"`
	OpenAcc             float64
	LoanAmnt            float64
	AnnualInc           float64
	CreditHistoryMonths float64
	CreatedAt           time.Time `gorm:"index;not null"`
	RequestIP           string    `gorm:"type:varchar(64)"`
	ResponseTimeMs      float64
	Signature           string `gorm:"type:varchar(128)"`
}

func (predictionDBM) TableName() string {
	return constants.PredictionsTable
}

// fromDomain converts a decision record to its row. Inputs are stored as received.
func fromDomain(record *models.DecisionRecord) *predictionDBM {
	d := record.Decision
	a := record.Applicant
	return &predictionDBM{
		DecisionID:          d.ID.String(),
		ApplicantID:         d.ApplicantID,
		CreditScore:         d.Score,
		DefaultProbability:  d.Probability,
		RiskLevel:           string(d.Tier),
		Explanation:         d.Explanation,
		GradeNumeric:        a.GradeNumeric,
		IntRate:             a.IntRate,
		InqLast6Mths:        a.InqLast6Mths,
		RevolUtil:           a.RevolUtil,
		Installment:         a.Installment,
		InstallmentToIncome: a.InstallmentToIncome,
		LoanToIncome:        a.LoanToIncome,
		DTI:                 a.DTI,
		OpenAcc:             a.OpenAcc,
		LoanAmnt:            a.LoanAmnt,
		AnnualInc:           a.AnnualInc,
		CreditHistoryMonths: a.CreditHistoryMonths,
		CreatedAt:           d.DecidedAt.UTC(),
		RequestIP:           record.RequestIP,
		ResponseTimeMs:      d.LatencyMillis(),
	}
}

// toApplicant rebuilds the stored inputs.
func (dbm *predictionDBM) toApplicant() models.ApplicantRecord {
	return models.ApplicantRecord{
		ApplicantID:         dbm.ApplicantID,
		GradeNumeric:        dbm.GradeNumeric,
		IntRate:             dbm.IntRate,
		InqLast6Mths:        dbm.InqLast6Mths,
		RevolUtil:           dbm.RevolUtil,
		Installment:         dbm.Installment,
		InstallmentToIncome: dbm.InstallmentToIncome,
		LoanToIncome:        dbm.LoanToIncome,
		DTI:                 dbm.DTI,
		OpenAcc:             dbm.OpenAcc,
		LoanAmnt:            dbm.LoanAmnt,
		AnnualInc:           dbm.AnnualInc,
		CreditHistoryMonths: dbm.CreditHistoryMonths,
	}
}

// toRecord rebuilds the decision record. Warnings and override flags are not stored.
func (dbm *predictionDBM) toRecord() *models.DecisionRecord {
	id, _ := uuid.Parse(dbm.DecisionID)
	return &models.DecisionRecord{
		Decision: &models.Decision{
			ID:          id,
			ApplicantID: dbm.ApplicantID,
			Score:       dbm.CreditScore,
			Probability: dbm.DefaultProbability,
			Tier:        models.RiskTier(dbm.RiskLevel),
			Explanation: dbm.Explanation,
			Latency:     time.Duration(dbm.ResponseTimeMs * float64(time.Millisecond)),
			DecidedAt:   dbm.CreatedAt,
		},
		Applicant: dbm.toApplicant(),
		RequestIP: dbm.RequestIP,
	}
}
