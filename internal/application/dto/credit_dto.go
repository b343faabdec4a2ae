package dto

import (
	"github.com/turtacn/credscore/internal/domain/models"
)

// CreditScoreRequest 信用评分请求 DTO
// Fields are pointers so `required` only checks presence: a missing field fails,
// an explicit zero or an empty applicant_id is accepted.
type CreditScoreRequest struct {
	ApplicantID         *string  `json:"applicant_id" binding:"required"`
	GradeNumeric        *float64 `json:"grade_numeric" binding:"required,gte=1,lte=7"`
	IntRate             *float64 `json:"int_rate" binding:"required,gte=0,lte=35"`
	InqLast6Mths        *float64 `json:"inq_last_6mths" binding:"required,gte=0"`
	RevolUtil           *float64 `json:"revol_util" binding:"required,gte=0"`
	Installment         *float64 `json:"installment" binding:"required,gte=0"`
	InstallmentToIncome *float64 `json:"installment_to_income" binding:"required,gte=0"`
	LoanToIncome        *float64 `json:"loan_to_income" binding:"required,gte=0"`
	DTI                 *float64 `json:"dti" binding:"required,gte=0"`
	OpenAcc             *float64 `json:"open_acc" binding:"required,gte=0"`
	LoanAmnt            *float64 `json:"loan_amnt" binding:"required,gte=0"`
	AnnualInc           *float64 `json:"annual_inc" binding:"required,gte=0"`
	CreditHistoryMonths *float64 `json:"credit_history_months" binding:"required,gte=0"`
}

// ToApplicant converts the request into the domain record. Absent fields become zero.
func (r *CreditScoreRequest) ToApplicant() models.ApplicantRecord {
	return models.ApplicantRecord{
		ApplicantID:         deref(r.ApplicantID),
		GradeNumeric:        deref(r.GradeNumeric),
		IntRate:             deref(r.IntRate),
		InqLast6Mths:        deref(r.InqLast6Mths),
		RevolUtil:           deref(r.RevolUtil),
		Installment:         deref(r.Installment),
		InstallmentToIncome: deref(r.InstallmentToIncome),
		LoanToIncome:        deref(r.LoanToIncome),
		DTI:                 deref(r.DTI),
		OpenAcc:             deref(r.OpenAcc),
		LoanAmnt:            deref(r.LoanAmnt),
		AnnualInc:           deref(r.AnnualInc),
		CreditHistoryMonths: deref(r.CreditHistoryMonths),
	}
}

// NewCreditScoreRequest builds a fully populated request from a domain record.
func NewCreditScoreRequest(a models.ApplicantRecord) *CreditScoreRequest {
	return &CreditScoreRequest{
		ApplicantID:         ptr(a.ApplicantID),
		GradeNumeric:        ptr(a.GradeNumeric),
		IntRate:             ptr(a.IntRate),
		InqLast6Mths:        ptr(a.InqLast6Mths),
		RevolUtil:           ptr(a.RevolUtil),
		Installment:         ptr(a.Installment),
		InstallmentToIncome: ptr(a.InstallmentToIncome),
		LoanToIncome:        ptr(a.LoanToIncome),
		DTI:                 ptr(a.DTI),
		OpenAcc:             ptr(a.OpenAcc),
		LoanAmnt:            ptr(a.LoanAmnt),
		AnnualInc:           ptr(a.AnnualInc),
		CreditHistoryMonths: ptr(a.CreditHistoryMonths),
	}
}

// CreditScoreResponse 信用评分响应 DTO
type CreditScoreResponse struct {
	ApplicantID        string  `json:"applicant_id"`
	CreditScore        int     `json:"credit_score"`
	DefaultProbability float64 `json:"default_probability"`
	RiskLevel          string  `json:"risk_level"`
	Explanation        string  `json:"explanation"`
}

// NewCreditScoreResponse 由领域决策构造响应
func NewCreditScoreResponse(d *models.Decision) *CreditScoreResponse {
	return &CreditScoreResponse{
		ApplicantID:        d.ApplicantID,
		CreditScore:        d.Score,
		DefaultProbability: d.Probability,
		RiskLevel:          string(d.Tier),
		Explanation:        d.Explanation,
	}
}

// RequestMeta carries request-scoped facts that are recorded but never influence the decision.
type RequestMeta struct {
	ClientIP  string
	RequestID string
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func ptr[T any](v T) *T {
	return &v
}
