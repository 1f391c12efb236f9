package loan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"bfsiocr/models"
)

// ComputeEMI returns the monthly installment of an amortizing loan. All
// arguments must be positive and the result finite.
func ComputeEMI(principal, annualRatePct float64, tenureYears int) (float64, error) {
	if principal <= 0 || annualRatePct <= 0 || tenureYears <= 0 {
		return 0, models.NewError("loan.emi", models.KindInvalidInput,
			fmt.Errorf("principal=%v rate=%v tenure=%v must all be positive", principal, annualRatePct, tenureYears))
	}

	r := annualRatePct / (12 * 100)
	n := float64(tenureYears) * 12
	growth := math.Pow(1+r, n)
	if growth-1 == 0 || math.IsInf(growth, 0) || math.IsNaN(growth) {
		return 0, models.NewError("loan.emi", models.KindInvalidInput,
			fmt.Errorf("rate=%v over %d years has no finite installment", annualRatePct, tenureYears))
	}

	emi := principal * r * growth / (growth - 1)
	if math.IsInf(emi, 0) || math.IsNaN(emi) {
		return 0, models.NewError("loan.emi", models.KindInvalidInput,
			fmt.Errorf("principal=%v is too large", principal))
	}
	return emi, nil
}

// Summarize computes the EMI for req along with the totals over the tenure,
// rounded to two decimals.
func Summarize(req models.EMIRequest) (models.EMISummary, error) {
	emi, err := ComputeEMI(req.Principal, req.AnnualRatePct, req.TenureYears)
	if err != nil {
		return models.EMISummary{}, err
	}

	months := req.TenureYears * 12
	monthly := decimal.NewFromFloat(emi)
	total := monthly.Mul(decimal.NewFromInt(int64(months)))
	interest := total.Sub(decimal.NewFromFloat(req.Principal))

	return models.EMISummary{
		MonthlyPayment: monthly.Round(2).InexactFloat64(),
		TotalPayment:   total.Round(2).InexactFloat64(),
		TotalInterest:  interest.Round(2).InexactFloat64(),
		Months:         months,
	}, nil
}
