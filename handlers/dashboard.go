package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"bfsiocr/analysis"
	"bfsiocr/charts"
	"bfsiocr/forms"
	"bfsiocr/messages"
	"bfsiocr/models"
	"bfsiocr/router"
	"bfsiocr/session"
	"bfsiocr/views"
)

var modeIDs = map[analysis.Mode]string{
	analysis.Supervised:     "mode_supervised",
	analysis.SemiSupervised: "mode_semi_supervised",
	analysis.Unsupervised:   "mode_unsupervised",
}

// DashboardHandler renders the screen picked by ?screen= for the session.
func DashboardHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if !methodAllowed(w, r, http.MethodGet, http.MethodHead) {
			return
		}

		st := app.Sessions.Load(r)
		loc := app.localizer(r)
		sel := router.ParseSelection(r.URL.Query().Get("screen"))

		switch router.Route(sel, st) {
		case router.ScreenAuth:
			target := "/login"
			if sel != router.SelectHome {
				target = signInRequired
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		case router.ScreenHome:
			app.render(w, r, views.PageHome, app.page(loc, st, router.SelectHome, views.HomeView{Body: app.Views.Home()}))
		case router.ScreenDocumentAnalysis:
			app.renderAnalysis(w, r, loc, st, app.analysisView(loc, analysis.Supervised))
		case router.ScreenStudentLoan:
			app.render(w, r, views.PageLoan, app.page(loc, st, router.SelectStudentLoan, app.loanView(nil)))
		case router.ScreenLogout:
			user := st.User
			st.Logout()
			if err := app.Sessions.Save(w, r, st); err != nil {
				requestLog(r, app.Log).Error("session.save", "err", err)
				http.Error(w, "Unable to save session", http.StatusInternalServerError)
				return
			}
			requestLog(r, app.Log).Info("auth.logout", "user", user)
			http.Redirect(w, r, "/login?logged_out=1", http.StatusSeeOther)
		}
	}
}

// AnalysisHandler shows the empty form of one analysis mode.
func AnalysisHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		st, ok := app.currentUser(w, r)
		if !ok {
			return
		}
		loc := app.localizer(r)
		mode := analysis.ParseMode(r.URL.Query().Get("mode"))
		app.renderAnalysis(w, r, loc, st, app.analysisView(loc, mode))
	}
}

// SupervisedHandler extracts text from an uploaded document image.
func SupervisedHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}
		st, ok := app.currentUser(w, r)
		if !ok {
			return
		}
		loc := app.localizer(r)
		view := app.analysisView(loc, analysis.Supervised)
		const op = "handlers.supervised"

		// Step 1: read the upload
		doc, err := app.readUpload(w, r, op, "document")
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		docType, err := forms.DocumentType(r.FormValue("doc_type"))
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		view.DocTypes = docTypeOptions(docType)

		// Step 2: OCR and word frequency
		res, err := app.Analysis.Analyze(r.Context(), analysis.Request{
			Mode:     analysis.Supervised,
			Document: doc,
			DocType:  docType,
		})
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		app.Stats.Analyses.Inc()

		// Step 3: tables and charts
		text := res.Text
		view.Text = &views.TextView{DocType: text.DocType, Engine: text.Engine, Text: text.Text, Words: text.Words}
		if len(text.TopWords) > 0 {
			labels := make([]string, len(text.TopWords))
			values := make([]float64, len(text.TopWords))
			for i, wc := range text.TopWords {
				labels[i] = wc.Word
				values[i] = float64(wc.Count)
			}
			title := loc.T("chart_top_words", map[string]any{"Count": len(labels)})
			view.Charts = app.addChart(r, view.Charts, title, func() ([]byte, error) {
				return charts.HorizontalBar(title, labels, values, charts.DefaultSize)
			})
			title = loc.T("chart_word_share", nil)
			view.Charts = app.addChart(r, view.Charts, title, func() ([]byte, error) {
				return charts.Pie(title, labels, values, charts.DefaultSize)
			})
		}

		app.renderAnalysis(w, r, loc, st, view, views.Flash{Level: views.LevelSuccess, Text: loc.T("extraction_complete", nil)})
	}
}

// SemiSupervisedHandler shows the latest price and recent history of a stock.
func SemiSupervisedHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}
		st, ok := app.currentUser(w, r)
		if !ok {
			return
		}
		loc := app.localizer(r)
		view := app.analysisView(loc, analysis.SemiSupervised)

		stock, err := forms.Stock(r.FormValue("stock"))
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		view.Stocks = stockOptions(stock)

		res, err := app.Analysis.Analyze(r.Context(), analysis.Request{Mode: analysis.SemiSupervised, Stock: stock})
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		app.Stats.Analyses.Inc()

		m := res.Market
		mv := &views.MarketView{Name: m.Stock.Name, Symbol: m.Stock.Symbol}
		var flash []views.Flash
		if m.Latest != nil {
			mv.Latest = loc.Number(m.Latest.Price, 2)
			mv.LatestAt = m.Latest.At.Format("2006-01-02 15:04 MST")
		} else {
			requestLog(r, app.Log).Warn("market.latest_unavailable", "symbol", m.Stock.Symbol, "err", m.LatestErr)
			flash = append(flash, views.Flash{Level: views.LevelWarning, Text: loc.T("live_unavailable", nil)})
		}

		if len(m.History) > 0 {
			labels := make([]string, len(m.History))
			closes := make([]float64, len(m.History))
			for i, bar := range m.History {
				mv.History = append(mv.History, views.BarView{
					Date:   bar.Date.Format("2006-01-02"),
					Open:   loc.Number(bar.Open, 2),
					High:   loc.Number(bar.High, 2),
					Low:    loc.Number(bar.Low, 2),
					Close:  loc.Number(bar.Close, 2),
					Volume: loc.Number(float64(bar.Volume), 0),
				})
				labels[i] = bar.Date.Format("01-02")
				closes[i] = bar.Close
			}
			title := fmt.Sprintf("%s (%s)", loc.T("chart_closing_prices", nil), m.Stock.Symbol)
			view.Charts = app.addChart(r, view.Charts, title, func() ([]byte, error) {
				return charts.Line(title, "Date", "Close", labels, closes, charts.DefaultSize)
			})
		} else {
			requestLog(r, app.Log).Warn("market.history_unavailable", "symbol", m.Stock.Symbol, "err", m.HistoryErr)
			flash = append(flash, views.Flash{Level: views.LevelWarning, Text: loc.T("history_unavailable", map[string]any{
				"Stock":  m.Stock.Name,
				"Symbol": m.Stock.Symbol,
			})})
		}
		view.Market = mv

		app.renderAnalysis(w, r, loc, st, view, flash...)
	}
}

// UnsupervisedHandler clusters the rows of an uploaded CSV.
func UnsupervisedHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodPost) {
			return
		}
		st, ok := app.currentUser(w, r)
		if !ok {
			return
		}
		loc := app.localizer(r)
		view := app.analysisView(loc, analysis.Unsupervised)
		const op = "handlers.unsupervised"

		doc, err := app.readUpload(w, r, op, "dataset")
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		k, err := forms.Clusters(r.FormValue("clusters"))
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		view.K = k

		res, err := app.Analysis.Analyze(r.Context(), analysis.Request{Mode: analysis.Unsupervised, CSV: doc.Data, K: k})
		if err != nil {
			app.renderAnalysis(w, r, loc, st, view, app.failure(r, loc, err))
			return
		}
		app.Stats.Analyses.Inc()

		c := res.Clusters
		cv := &views.ClusterView{
			Summary: loc.Plural("clusters_found", len(c.Numeric), nil),
			Counts:  c.Counts,
		}
		for _, col := range c.Table.Columns {
			cv.Columns = append(cv.Columns, col.Name)
		}
		cv.Columns = append(cv.Columns, "Cluster")
		for i := 0; i < c.Table.Rows; i++ {
			row := make([]string, 0, len(c.Table.Columns)+1)
			for _, col := range c.Table.Columns {
				row = append(row, col.Values[i])
			}
			cv.Rows = append(cv.Rows, append(row, strconv.Itoa(c.Labels[i])))
		}
		view.Clusters = cv

		title := loc.T("chart_clusters", nil)
		view.Charts = app.addChart(r, view.Charts, title, func() ([]byte, error) {
			return charts.Scatter(title, c.XName, c.YName, c.Numeric[0].Floats, c.Numeric[1].Floats, c.Labels, charts.DefaultSize)
		})
		labels := make([]string, len(c.Counts))
		sizes := make([]float64, len(c.Counts))
		for i, cc := range c.Counts {
			labels[i] = fmt.Sprintf("Cluster %d", cc.Cluster)
			sizes[i] = float64(cc.Count)
		}
		title = loc.T("chart_cluster_sizes", nil)
		view.Charts = app.addChart(r, view.Charts, title, func() ([]byte, error) {
			return charts.Pie(title, labels, sizes, charts.DefaultSize)
		})

		app.renderAnalysis(w, r, loc, st, view)
	}
}

// LogoHandler serves the rasterized sidebar logo.
func LogoHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !methodAllowed(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(app.Views.LogoPNG())
	}
}

func (a *App) renderAnalysis(w http.ResponseWriter, r *http.Request, loc *messages.Localizer, st session.State, view views.AnalysisView, flash ...views.Flash) {
	p := a.page(loc, st, router.SelectDocumentAnalysis, view)
	p.Flash = flash
	a.render(w, r, views.PageAnalysis, p)
}

func (a *App) analysisView(loc *messages.Localizer, mode analysis.Mode) views.AnalysisView {
	v := views.AnalysisView{
		Mode:     mode.String(),
		DocTypes: docTypeOptions(models.DocumentTypes[0]),
		Stocks:   stockOptions(models.Stocks[0]),
		K:        forms.DefaultClusters,
		MinK:     forms.MinClusters,
		MaxK:     forms.MaxClusters,
	}
	for _, m := range analysis.Modes {
		v.Modes = append(v.Modes, views.Link{
			Label:  loc.T(modeIDs[m], nil),
			Href:   "/analysis?mode=" + m.String(),
			Active: m == mode,
		})
	}
	return v
}

// addChart renders one chart; a failure is logged and the chart skipped so
// the tables still show.
func (a *App) addChart(r *http.Request, list []views.Chart, title string, draw func() ([]byte, error)) []views.Chart {
	start := time.Now()
	png, err := draw()
	if err != nil {
		requestLog(r, a.Log).Warn("chart.failed", "title", title, "err", err)
		return list
	}
	requestLog(r, a.Log).Debug("chart.rendered", "title", title, "bytes", len(png), "took", time.Since(start).String())
	return append(list, views.Chart{Title: title, PNG: png})
}

// readUpload reads one multipart file, capped at MaxUploadBytes.
func (a *App) readUpload(w http.ResponseWriter, r *http.Request, op, field string) (models.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			return models.Document{}, models.FieldError(op, field, fmt.Sprintf("file is larger than %d bytes", a.MaxUploadBytes))
		}
		return models.Document{}, models.FieldError(op, field, "expected a multipart upload")
	}

	f, hdr, err := r.FormFile(field)
	if err != nil {
		return models.Document{}, models.FieldError(op, field, "no file uploaded")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Document{}, models.NewError(op, models.KindInvalidInput, fmt.Errorf("read %s: %w", hdr.Filename, err))
	}
	return models.Document{
		FileName:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func docTypeOptions(selected models.DocumentType) []views.Option {
	out := make([]views.Option, len(models.DocumentTypes))
	for i, d := range models.DocumentTypes {
		out[i] = views.Option{Value: string(d), Label: string(d), Selected: d == selected}
	}
	return out
}

func stockOptions(selected models.Stock) []views.Option {
	out := make([]views.Option, len(models.Stocks))
	for i, s := range models.Stocks {
		out[i] = views.Option{Value: s.Symbol, Label: s.Name + " (" + s.Symbol + ")", Selected: s.Symbol == selected.Symbol}
	}
	return out
}
