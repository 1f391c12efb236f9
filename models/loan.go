package models

// LoanCategory is the study category on the loan form.
type LoanCategory string

const (
	CategoryUndergraduate LoanCategory = "Undergraduate"
	CategoryPostgraduate  LoanCategory = "Postgraduate"
	CategoryAbroad        LoanCategory = "Abroad Studies"
)

// LoanCategories lists the selectable categories in display order.
var LoanCategories = []LoanCategory{CategoryUndergraduate, CategoryPostgraduate, CategoryAbroad}

// LoanApplication is a validated student loan form submission.
type LoanApplication struct {
	Name         string
	Age          int
	TenthScore   float64
	TwelfthScore float64
	FamilyIncome float64
	Category     LoanCategory
	Amount       float64
}

// BankOffer is a static offer shown to eligible applicants.
type BankOffer struct {
	Bank         string
	InterestRate string
	MaxLoan      string
	Tenure       string
}

// EMIRequest is a validated EMI calculator submission.
type EMIRequest struct {
	Principal     float64
	AnnualRatePct float64
	TenureYears   int
}

// EMISummary is the outcome of an EMI calculation.
type EMISummary struct {
	MonthlyPayment float64
	TotalPayment   float64
	TotalInterest  float64
	Months         int
}
