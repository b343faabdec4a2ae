package models

// Feature names as they appear on the wire and in model artifacts.
const (
	FeatureGradeNumeric        = "grade_numeric"
	FeatureIntRate             = "int_rate"
	FeatureInqLast6Mths        = "inq_last_6mths"
	FeatureRevolUtil           = "revol_util"
	FeatureInstallment         = "installment"
	FeatureInstallmentToIncome = "installment_to_income"
	FeatureLoanToIncome        = "loan_to_income"
	FeatureDTI                 = "dti"
	FeatureOpenAcc             = "open_acc"
	FeatureLoanAmnt            = "loan_amnt"
	FeatureAnnualInc           = "annual_inc"
	FeatureCreditHistoryMonths = "credit_history_months"
)

// FeatureNames lists every numeric applicant field in record order.
var FeatureNames = []string{
	FeatureGradeNumeric,
	FeatureIntRate,
	FeatureInqLast6Mths,
	FeatureRevolUtil,
	FeatureInstallment,
	FeatureInstallmentToIncome,
	FeatureLoanToIncome,
	FeatureDTI,
	FeatureOpenAcc,
	FeatureLoanAmnt,
	FeatureAnnualInc,
	FeatureCreditHistoryMonths,
}

// ApplicantRecord is the immutable input to a scoring decision.
// Methods take a value receiver; callers that need an adjusted copy use With* helpers.
type ApplicantRecord struct {
	ApplicantID         string  `json:"applicant_id"`
	GradeNumeric        float64 `json:"grade_numeric"`
	IntRate             float64 `json:"int_rate"`
	InqLast6Mths        float64 `json:"inq_last_6mths"`
	RevolUtil           float64 `json:"revol_util"`
	Installment         float64 `json:"installment"`
	InstallmentToIncome float64 `json:"installment_to_income"`
	LoanToIncome        float64 `json:"loan_to_income"`
	DTI                 float64 `json:"dti"`
	OpenAcc             float64 `json:"open_acc"`
	LoanAmnt            float64 `json:"loan_amnt"`
	AnnualInc           float64 `json:"annual_inc"`
	CreditHistoryMonths float64 `json:"credit_history_months"`
}

// NamedValue pairs a feature name with its value.
type NamedValue struct {
	Name  string
	Value float64
}

// Features returns every numeric field in record order.
func (a ApplicantRecord) Features() []NamedValue {
	return []NamedValue{
		{FeatureGradeNumeric, a.GradeNumeric},
		{FeatureIntRate, a.IntRate},
		{FeatureInqLast6Mths, a.InqLast6Mths},
		{FeatureRevolUtil, a.RevolUtil},
		{FeatureInstallment, a.Installment},
		{FeatureInstallmentToIncome, a.InstallmentToIncome},
		{FeatureLoanToIncome, a.LoanToIncome},
		{FeatureDTI, a.DTI},
		{FeatureOpenAcc, a.OpenAcc},
		{FeatureLoanAmnt, a.LoanAmnt},
		{FeatureAnnualInc, a.AnnualInc},
		{FeatureCreditHistoryMonths, a.CreditHistoryMonths},
	}
}

// Feature looks a numeric field up by its wire name.
// It is the only name-keyed access path and exists for the model boundary.
func (a ApplicantRecord) Feature(name string) (float64, bool) {
	switch name {
	case FeatureGradeNumeric:
		return a.GradeNumeric, true
	case FeatureIntRate:
		return a.IntRate, true
	case FeatureInqLast6Mths:
		return a.InqLast6Mths, true
	case FeatureRevolUtil:
		return a.RevolUtil, true
	case FeatureInstallment:
		return a.Installment, true
	case FeatureInstallmentToIncome:
		return a.InstallmentToIncome, true
	case FeatureLoanToIncome:
		return a.LoanToIncome, true
	case FeatureDTI:
		return a.DTI, true
	case FeatureOpenAcc:
		return a.OpenAcc, true
	case FeatureLoanAmnt:
		return a.LoanAmnt, true
	case FeatureAnnualInc:
		return a.AnnualInc, true
	case FeatureCreditHistoryMonths:
		return a.CreditHistoryMonths, true
	default:
		return 0, false
	}
}

// WithRevolUtilCap returns a copy with revolving utilization capped at limit.
func (a ApplicantRecord) WithRevolUtilCap(limit float64) ApplicantRecord {
	if a.RevolUtil > limit {
		a.RevolUtil = limit
	}
	return a
}

// FeatureVector is an ordered set of model inputs.
type FeatureVector []NamedValue

// Names returns the feature names in order.
func (v FeatureVector) Names() []string {
	names := make([]string, len(v))
	for i, nv := range v {
		names[i] = nv.Name
	}
	return names
}
