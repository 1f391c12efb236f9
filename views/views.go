// Package views renders the HTML screens from embedded templates.
package views

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"bfsiocr/analysis"
	"bfsiocr/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/home.md
var homeMarkdown []byte

// Page names.
const (
	PageLogin    = "login"
	PageHome     = "home"
	PageAnalysis = "analysis"
	PageLoan     = "loan"
)

var pageNames = []string{PageLogin, PageHome, PageAnalysis, PageLoan}

// Flash levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelSuccess = "success"
	LevelInfo    = "info"
)

// Page is the data passed to the layout.
type Page struct {
	Lang     string
	Title    string
	User     string
	Greeting string
	Nav      []Link
	Flash    []Flash
	Data     any
}

// Link is a navigation or tab entry.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// Flash is an inline message.
type Flash struct {
	Level string
	Text  string
}

// Option is one <option> of a select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Chart is a rendered PNG with its alt text.
type Chart struct {
	Title string
	PNG   []byte
}

type LoginView struct {
	Mode     string // signin or signup
	Username string
}

type HomeView struct {
	Body template.HTML
}

type AnalysisView struct {
	Mode       string
	Modes      []Link
	DocTypes   []Option
	Stocks     []Option
	K          int
	MinK, MaxK int
	Text       *TextView
	Market     *MarketView
	Clusters   *ClusterView
	Charts     []Chart
}

type TextView struct {
	DocType models.DocumentType
	Engine  string
	Text    string
	Words   []models.WordCount
}

type MarketView struct {
	Name     string
	Symbol   string
	Latest   string
	LatestAt string
	History  []BarView
}

// BarView is a PriceBar formatted for display.
type BarView struct {
	Date                   string
	Open, High, Low, Close string
	Volume                 string
}

type ClusterView struct {
	Summary string
	Columns []string
	Rows    [][]string
	Counts  []analysis.ClusterCount
}

type LoanView struct {
	Values     map[string]string
	Categories []Option
	Offers     []models.BankOffer
	Formula    template.HTML
	EMI        *EMIView
}

type EMIView struct {
	Monthly  string
	Total    string
	Interest string
	Months   int
}

// Renderer holds the parsed pages and the static fragments shared by them.
type Renderer struct {
	pages   map[string]*template.Template
	home    template.HTML
	formula template.HTML
	logo    []byte
}

// New parses the embedded templates and prerenders the home body, the EMI
// formula and the logo.
func New() (*Renderer, error) {
	funcs := template.FuncMap{"dataURI": DataURI}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}

	var err error
	if r.home, err = Markdown(homeMarkdown); err != nil {
		return nil, fmt.Errorf("render home: %w", err)
	}
	if r.formula, err = Math(EMIFormula); err != nil {
		return nil, fmt.Errorf("render emi formula: %w", err)
	}
	if r.logo, err = Logo(LogoSize); err != nil {
		return nil, fmt.Errorf("render logo: %w", err)
	}
	return r, nil
}

// Render writes page name. It renders into a buffer first so a template
// failure never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Home returns the rendered home body.
func (r *Renderer) Home() template.HTML { return r.home }

// Formula returns the EMI formula as MathML.
func (r *Renderer) Formula() template.HTML { return r.formula }

// LogoPNG returns the rasterized logo.
func (r *Renderer) LogoPNG() []byte { return r.logo }

// DataURI embeds a PNG in an img src.
func DataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
