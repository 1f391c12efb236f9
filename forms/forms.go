// Package forms turns raw form values into typed, bounds-checked requests.
// Business rules live elsewhere; this package only enforces field types and
// ranges.
package forms

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"bfsiocr/models"
)

// Bounds enforced at the input boundary.
const (
	MinAge      = 16
	MaxAge      = 60
	MinScore    = 0.0
	MaxScore    = 100.0
	MinClusters = 2
	MaxClusters = 10

	MaxRatePct     = 100.0
	MaxTenureYears = 50

	DefaultClusters = 3
)

// SignUp reads the sign-up form.
func SignUp(v url.Values) models.SignUpRequest {
	return models.SignUpRequest{
		Username:        strings.TrimSpace(v.Get("username")),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirm_password"),
	}
}

// Login reads the sign-in form.
func Login(v url.Values) models.LoginRequest {
	return models.LoginRequest{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

// LoanApplication validates the student loan form.
func LoanApplication(v url.Values) (models.LoanApplication, error) {
	const op = "forms.loan_application"

	age, err := intField(op, v, "age", MinAge, MaxAge)
	if err != nil {
		return models.LoanApplication{}, err
	}
	tenth, err := floatField(op, v, "tenth_score", MinScore, MaxScore)
	if err != nil {
		return models.LoanApplication{}, err
	}
	twelfth, err := floatField(op, v, "twelfth_score", MinScore, MaxScore)
	if err != nil {
		return models.LoanApplication{}, err
	}
	income, err := floatField(op, v, "family_income", 0, math.MaxFloat64)
	if err != nil {
		return models.LoanApplication{}, err
	}
	amount, err := floatField(op, v, "loan_amount", 0, math.MaxFloat64)
	if err != nil {
		return models.LoanApplication{}, err
	}
	category, err := loanCategory(op, v.Get("category"))
	if err != nil {
		return models.LoanApplication{}, err
	}

	return models.LoanApplication{
		Name:         strings.TrimSpace(v.Get("name")),
		Age:          age,
		TenthScore:   tenth,
		TwelfthScore: twelfth,
		FamilyIncome: income,
		Category:     category,
		Amount:       amount,
	}, nil
}

// EMIRequest validates the EMI calculator form. Zero values pass here and
// are rejected by the calculator itself.
func EMIRequest(v url.Values) (models.EMIRequest, error) {
	const op = "forms.emi_request"

	principal, err := floatField(op, v, "principal", 0, math.MaxFloat64)
	if err != nil {
		return models.EMIRequest{}, err
	}
	rate, err := floatField(op, v, "rate", 0, MaxRatePct)
	if err != nil {
		return models.EMIRequest{}, err
	}
	tenure, err := intField(op, v, "tenure", 0, MaxTenureYears)
	if err != nil {
		return models.EMIRequest{}, err
	}

	return models.EMIRequest{Principal: principal, AnnualRatePct: rate, TenureYears: tenure}, nil
}

// Clusters validates the K field. An empty value selects DefaultClusters.
func Clusters(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultClusters, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.FieldError("forms.clusters", "k", "must be a whole number")
	}
	if k < MinClusters || k > MaxClusters {
		return 0, models.FieldError("forms.clusters", "k", fmt.Sprintf("must be between %d and %d", MinClusters, MaxClusters))
	}
	return k, nil
}

// Stock resolves a symbol against the fixed ticker set.
func Stock(raw string) (models.Stock, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	for _, s := range models.Stocks {
		if s.Symbol == raw {
			return s, nil
		}
	}
	return models.Stock{}, models.FieldError("forms.stock", "symbol", fmt.Sprintf("unknown symbol %q", raw))
}

// DocumentType resolves the OCR document type. Empty selects the first one.
func DocumentType(raw string) (models.DocumentType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DocumentTypes[0], nil
	}
	for _, d := range models.DocumentTypes {
		if string(d) == raw {
			return d, nil
		}
	}
	return "", models.FieldError("forms.document_type", "doc_type", fmt.Sprintf("unknown document type %q", raw))
}

func loanCategory(op, raw string) (models.LoanCategory, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.LoanCategories[0], nil
	}
	for _, c := range models.LoanCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", models.FieldError(op, "category", fmt.Sprintf("unknown category %q", raw))
}

func floatField(op string, v url.Values, name string, lo, hi float64) (float64, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, models.FieldError(op, name, "is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, models.FieldError(op, name, "must be a number")
	}
	if f < lo || f > hi {
		return 0, models.FieldError(op, name, fmt.Sprintf("must be between %v and %v", lo, hi))
	}
	return f, nil
}

func intField(op string, v url.Values, name string, lo, hi int) (int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, models.FieldError(op, name, "is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.FieldError(op, name, "must be a whole number")
	}
	if n < lo || n > hi {
		return 0, models.FieldError(op, name, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return n, nil
}
