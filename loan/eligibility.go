package loan

import "bfsiocr/models"

// Eligibility thresholds.
const (
	MinTenthScore   = 60.0
	MinTwelfthScore = 60.0
	MaxAge          = 35
)

// offers is placeholder sample data, not sourced from any bank.
var offers = []models.BankOffer{
	{Bank: "SBI Bank", InterestRate: "8.5%", MaxLoan: "10 Lakh", Tenure: "5 Years"},
	{Bank: "ICICI Bank", InterestRate: "9%", MaxLoan: "7 Lakh", Tenure: "7 Years"},
	{Bank: "HDFC Bank", InterestRate: "7.5%", MaxLoan: "12 Lakh", Tenure: "10 Years"},
}

// CheckEligibility reports whether an applicant qualifies for an education loan.
func CheckEligibility(age int, tenthScore, twelfthScore float64) bool {
	return tenthScore >= MinTenthScore && twelfthScore >= MinTwelfthScore && age <= MaxAge
}

// Offers returns a copy of the static bank offers.
func Offers() []models.BankOffer {
	out := make([]models.BankOffer, len(offers))
	copy(out, offers)
	return out
}

// Decision is the outcome of evaluating an application.
type Decision struct {
	Application models.LoanApplication
	Eligible    bool
	Offers      []models.BankOffer
}

// Evaluate checks app and attaches the offers when it is eligible.
func Evaluate(app models.LoanApplication) Decision {
	d := Decision{
		Application: app,
		Eligible:    CheckEligibility(app.Age, app.TenthScore, app.TwelfthScore),
	}
	if d.Eligible {
		d.Offers = Offers()
	}
	return d
}
