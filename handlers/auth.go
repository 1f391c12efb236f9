package handlers

import (
	"net/http"

	"bfsiocr/forms"
	"bfsiocr/messages"
	"bfsiocr/router"
	"bfsiocr/session"
	"bfsiocr/views"
)

const (
	modeSignIn = "signin"
	modeSignUp = "signup"
)

func (a *App) renderAuth(w http.ResponseWriter, r *http.Request, loc *messages.Localizer, mode, username string, flash ...views.Flash) {
	title := "title_sign_in"
	if mode == modeSignUp {
		title = "title_sign_up"
	}
	a.render(w, r, views.PageLogin, views.Page{
		Lang:  loc.Language(),
		Title: loc.T(title, nil),
		Flash: flash,
		Data:  views.LoginView{Mode: mode, Username: username},
	})
}

// SignUpHandler registers a new user. On success the sign-in form is shown.
func SignUpHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.Redirect(w, r, "/login?mode="+modeSignUp, http.StatusSeeOther)
			return
		}
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}
		loc := app.localizer(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Unable to parse form", http.StatusBadRequest)
			return
		}
		req := forms.SignUp(r.PostForm)

		if err := app.Users.Register(req); err != nil {
			app.renderAuth(w, r, loc, modeSignUp, req.Username, app.failure(r, loc, err))
			return
		}

		app.Stats.SignUps.Inc()
		requestLog(r, app.Log).Info("auth.signup", "user", req.Username)
		app.renderAuth(w, r, loc, modeSignIn, req.Username, views.Flash{
			Level: views.LevelSuccess,
			Text:  loc.T("signup_success", nil),
		})
	}
}

// LoginHandler serves the auth screen on GET and signs the user in on POST.
func LoginHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := app.Sessions.Load(r)
		loc := app.localizer(r)

		if r.Method == http.MethodGet {
			if st.Authenticated {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			mode := modeSignIn
			if r.URL.Query().Get("mode") == modeSignUp {
				mode = modeSignUp
			}
			var flash []views.Flash
			if r.URL.Query().Get("logged_out") != "" {
				flash = append(flash, views.Flash{Level: views.LevelInfo, Text: loc.T("logged_out", nil)})
			}
			if r.URL.Query().Get("required") != "" {
				flash = append(flash, views.Flash{Level: views.LevelInfo, Text: loc.T("sign_in_required", nil)})
			}
			app.renderAuth(w, r, loc, mode, "", flash...)
			return
		}
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Unable to parse form", http.StatusBadRequest)
			return
		}
		req := forms.Login(r.PostForm)

		user, err := app.Users.Authenticate(req)
		if err != nil {
			app.renderAuth(w, r, loc, modeSignIn, req.Username, app.failure(r, loc, err))
			return
		}

		st = session.Unauthenticated()
		st.SignIn(user)
		if err := app.Sessions.Save(w, r, st); err != nil {
			requestLog(r, app.Log).Error("session.save", "err", err)
			http.Error(w, "Unable to save session", http.StatusInternalServerError)
			return
		}

		app.Stats.SignIns.Inc()
		requestLog(r, app.Log).Info("auth.signin", "user", user)
		http.Redirect(w, r, "/?screen="+router.SelectHome.Label(), http.StatusSeeOther)
	}
}
