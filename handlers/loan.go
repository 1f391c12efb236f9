package handlers

import (
	"net/http"
	"net/url"

	"bfsiocr/forms"
	"bfsiocr/loan"
	"bfsiocr/messages"
	"bfsiocr/models"
	"bfsiocr/router"
	"bfsiocr/session"
	"bfsiocr/views"
)

var loanDefaults = map[string]string{
	"name":          "",
	"age":           "16",
	"tenth_score":   "0",
	"twelfth_score": "0",
	"family_income": "0",
	"category":      string(models.CategoryUndergraduate),
	"loan_amount":   "0",
	"principal":     "0",
	"rate":          "0",
	"tenure":        "0",
}

// loanView fills the form with defaults overlaid by the submitted values.
func (a *App) loanView(submitted url.Values) views.LoanView {
	values := make(map[string]string, len(loanDefaults))
	for k, v := range loanDefaults {
		values[k] = v
		if s := submitted.Get(k); s != "" {
			values[k] = s
		}
	}

	v := views.LoanView{Values: values, Formula: a.Views.Formula()}
	for _, c := range models.LoanCategories {
		v.Categories = append(v.Categories, views.Option{Value: string(c), Label: string(c), Selected: string(c) == values["category"]})
	}
	return v
}

func (a *App) renderLoan(w http.ResponseWriter, r *http.Request, loc *messages.Localizer, st session.State, view views.LoanView, flash ...views.Flash) {
	p := a.page(loc, st, router.SelectStudentLoan, view)
	p.Flash = flash
	a.render(w, r, views.PageLoan, p)
}

// LoanEligibilityHandler checks the student loan form and lists the bank
// offers for eligible applicants.
func LoanEligibilityHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}
		st, ok := app.currentUser(w, r)
		if !ok {
			return
		}
		loc := app.localizer(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Unable to parse form", http.StatusBadRequest)
			return
		}
		view := app.loanView(r.PostForm)

		application, err := forms.LoanApplication(r.PostForm)
		if err != nil {
			app.renderLoan(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}

		decision := loan.Evaluate(application)
		requestLog(r, app.Log).Info("loan.eligibility",
			"eligible", decision.Eligible,
			"age", application.Age,
			"category", application.Category,
		)

		name := map[string]any{"Name": application.Name}
		if !decision.Eligible {
			app.renderLoan(w, r, loc, st, view, views.Flash{Level: views.LevelError, Text: loc.T("loan_not_eligible", name)})
			return
		}
		view.Offers = decision.Offers
		app.renderLoan(w, r, loc, st, view, views.Flash{Level: views.LevelSuccess, Text: loc.T("loan_eligible", name)})
	}
}

// EMIHandler computes the monthly installment and totals.
func EMIHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}
		st, ok := app.currentUser(w, r)
		if !ok {
			return
		}
		loc := app.localizer(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Unable to parse form", http.StatusBadRequest)
			return
		}
		view := app.loanView(r.PostForm)

		req, err := forms.EMIRequest(r.PostForm)
		if err != nil {
			app.renderLoan(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		summary, err := loan.Summarize(req)
		if err != nil {
			app.renderLoan(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}

		view.EMI = &views.EMIView{
			Monthly:  loc.Number(summary.MonthlyPayment, 2),
			Total:    loc.Number(summary.TotalPayment, 2),
			Interest: loc.Number(summary.TotalInterest, 2),
			Months:   summary.Months,
		}
		app.renderLoan(w, r, loc, st, view, views.Flash{
			Level: views.LevelSuccess,
			Text:  loc.T("emi_result", map[string]any{"EMI": view.EMI.Monthly}),
		})
	}
}
