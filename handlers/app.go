package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bfsiocr/analysis"
	"bfsiocr/auth"
	"bfsiocr/messages"
	"bfsiocr/models"
	"bfsiocr/router"
	"bfsiocr/session"
	"bfsiocr/views"
)

// App holds the process-scoped state shared by every handler.
type App struct {
	Users          *auth.Store
	Sessions       *session.Manager
	Messages       *messages.Catalog
	Views          *views.Renderer
	Analysis       *analysis.Dispatcher
	MaxUploadBytes int64
	Log            *slog.Logger
	Stats          *Stats
}

var navIDs = map[router.Selection]string{
	router.SelectHome:             "nav_home",
	router.SelectDocumentAnalysis: "nav_document_analysis",
	router.SelectStudentLoan:      "nav_student_loan",
	router.SelectLogout:           "nav_logout",
}

func (a *App) localizer(r *http.Request) *messages.Localizer {
	return a.Messages.Localizer(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

// page fills the layout fields for an authenticated screen.
func (a *App) page(loc *messages.Localizer, st session.State, active router.Selection, data any) views.Page {
	p := views.Page{
		Lang:  loc.Language(),
		Title: loc.T(navIDs[active], nil),
		Data:  data,
	}
	if !st.Authenticated {
		return p
	}

	p.User = st.User
	p.Greeting = loc.T("welcome", map[string]any{"User": st.User})
	for _, s := range router.Selections {
		p.Nav = append(p.Nav, views.Link{
			Label:  loc.T(navIDs[s], nil),
			Href:   "/?screen=" + s.Label(),
			Active: s == active,
		})
	}
	return p
}

func (a *App) render(w http.ResponseWriter, r *http.Request, name string, p views.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.Views.Render(w, name, p); err != nil {
		requestLog(r, a.Log).Error("render.failed", "page", name, "err", err)
		http.Error(w, "Unable to render page", http.StatusInternalServerError)
	}
}

// signInRequired is the redirect for protected actions without a session.
// The login screen shows a message for it.
const signInRequired = "/login?required=1"

// currentUser returns the session state or redirects to the login screen.
func (a *App) currentUser(w http.ResponseWriter, r *http.Request) (session.State, bool) {
	st := a.Sessions.Load(r)
	if router.Route(router.SelectHome, st) == router.ScreenAuth {
		requestLog(r, a.Log).Info("auth.required", "path", r.URL.Path)
		http.Redirect(w, r, signInRequired, http.StatusSeeOther)
		return st, false
	}
	return st, true
}

// failure logs err and turns it into an inline error message.
func (a *App) failure(r *http.Request, loc *messages.Localizer, err error) views.Flash {
	log := requestLog(r, a.Log)
	if kind := models.KindOf(err); kind != "" {
		log.Warn("screen.error", "kind", kind, "err", err)
	} else {
		log.Error("screen.error", "err", err)
	}
	return views.Flash{Level: views.LevelError, Text: loc.Error(err)}
}

func methodAllowed(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
