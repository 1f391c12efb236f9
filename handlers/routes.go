package handlers

import "net/http"

// Routes registers every endpoint and wraps the mux in the request logger.
func Routes(app *App) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/signup", SignUpHandler(app))
	mux.HandleFunc("/login", LoginHandler(app))
	mux.HandleFunc("/", DashboardHandler(app))
	mux.HandleFunc("/analysis", AnalysisHandler(app))
	mux.HandleFunc("/analysis/supervised", SupervisedHandler(app))
	mux.HandleFunc("/analysis/semi-supervised", SemiSupervisedHandler(app))
	mux.HandleFunc("/analysis/unsupervised", UnsupervisedHandler(app))
	mux.HandleFunc("/loan/eligibility", LoanEligibilityHandler(app))
	mux.HandleFunc("/loan/emi", EMIHandler(app))

	mux.HandleFunc("/static/logo.png", LogoHandler(app))
	mux.HandleFunc("/healthz", HealthHandler(app))

	return Logging(app, mux)
}
