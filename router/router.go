// Package router maps a navigation selection and the session state to the
// screen that renders for the request.
package router

import (
	"fmt"

	"bfsiocr/session"
)

// Screen is a type-safe identifier for screens.
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenHome
	ScreenDocumentAnalysis
	ScreenStudentLoan
	ScreenLogout
)

func (s Screen) String() string {
	switch s {
	case ScreenAuth:
		return "auth"
	case ScreenHome:
		return "home"
	case ScreenDocumentAnalysis:
		return "document-analysis"
	case ScreenStudentLoan:
		return "student-loan"
	case ScreenLogout:
		return "logout"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Selection is a navigation menu choice.
type Selection int

const (
	SelectHome Selection = iota
	SelectDocumentAnalysis
	SelectStudentLoan
	SelectLogout
)

// Selections lists the menu entries in display order.
var Selections = []Selection{SelectHome, SelectDocumentAnalysis, SelectStudentLoan, SelectLogout}

// Label returns the query value for the selection.
func (s Selection) Label() string {
	switch s {
	case SelectDocumentAnalysis:
		return "document-analysis"
	case SelectStudentLoan:
		return "student-loan"
	case SelectLogout:
		return "logout"
	default:
		return "home"
	}
}

// ParseSelection maps a query value to a Selection. Unknown values select
// Home, the default menu entry.
func ParseSelection(label string) Selection {
	for _, s := range Selections {
		if s.Label() == label {
			return s
		}
	}
	return SelectHome
}

// Route returns the screen for selection. It fails closed: without an
// authenticated session only the auth screen is reachable.
func Route(selection Selection, st session.State) Screen {
	if !st.Authenticated {
		return ScreenAuth
	}

	switch selection {
	case SelectHome:
		return ScreenHome
	case SelectDocumentAnalysis:
		return ScreenDocumentAnalysis
	case SelectStudentLoan:
		return ScreenStudentLoan
	case SelectLogout:
		return ScreenLogout
	default:
		return ScreenHome
	}
}
