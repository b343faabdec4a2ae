package service_test

import "github.com/turtacn/credscore/internal/domain/models"

func validApplicant() models.ApplicantRecord {
	return models.ApplicantRecord{
		ApplicantID:         "TEST001",
		GradeNumeric:        3,
		IntRate:             13.5,
		InqLast6Mths:        0,
		RevolUtil:           25,
		Installment:         350,
		InstallmentToIncome: 0.07,
		LoanToIncome:        0.30,
		DTI:                 15,
		OpenAcc:             8,
		LoanAmnt:            15000,
		AnnualInc:           50000,
		CreditHistoryMonths: 120,
	}
}

func highRiskApplicant() models.ApplicantRecord {
	return models.ApplicantRecord{
		ApplicantID:         "TEST_HIGH_RISK",
		GradeNumeric:        5,
		IntRate:             22,
		InqLast6Mths:        4,
		RevolUtil:           85,
		Installment:         800,
		InstallmentToIncome: 0.45,
		LoanToIncome:        0.6,
		DTI:                 65,
		OpenAcc:             12,
		LoanAmnt:            30000,
		AnnualInc:           50000,
		CreditHistoryMonths: 8,
	}
}
