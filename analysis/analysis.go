// Package analysis runs the three document analysis modes against their
// collaborators and returns plain results for rendering.
package analysis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"bfsiocr/cluster"
	"bfsiocr/dataset"
	"bfsiocr/forms"
	"bfsiocr/marketdata"
	"bfsiocr/models"
	"bfsiocr/ocr"
)

// HistoryDays is the trailing window of daily bars.
const HistoryDays = 7

// ClusterFunc is the clustering collaborator.
type ClusterFunc func(points [][]float64, k int, seed int64) ([]int, error)

// Request carries the payload for one mode. Only the fields of Mode are read.
type Request struct {
	Mode Mode

	// Supervised
	Document models.Document
	DocType  models.DocumentType

	// SemiSupervised
	Stock models.Stock

	// Unsupervised
	CSV []byte
	K   int
}

// Result holds the output of exactly one mode.
type Result struct {
	Mode     Mode
	Text     *TextResult
	Market   *MarketResult
	Clusters *ClusterResult
}

// TextResult is the Supervised output.
type TextResult struct {
	DocType   models.DocumentType
	Format    ocr.ImageFormat
	Text      string
	Words     []models.WordCount
	TopWords  []models.WordCount
	Engine    string
	Languages []string
}

// MarketResult is the SemiSupervised output. Latest is nil and LatestErr set
// when no intraday price exists; the same holds for History.
type MarketResult struct {
	Stock      models.Stock
	Latest     *models.Quote
	LatestErr  error
	History    []models.PriceBar
	HistoryErr error
	From, To   time.Time
}

// ClusterCount is the size of one cluster.
type ClusterCount struct {
	Cluster int
	Count   int
}

// ClusterResult is the Unsupervised output. Only the first two numeric
// columns are plotted (XName, YName); clustering uses all of them.
type ClusterResult struct {
	Table   *dataset.Table
	Numeric []dataset.Column
	K       int
	Labels  []int
	Counts  []ClusterCount
	XName   string
	YName   string
}

// Dispatcher routes a Request to its mode.
type Dispatcher struct {
	OCR       ocr.Engine
	Languages []string
	Market    marketdata.Provider
	Cluster   ClusterFunc
	Seed      int64
	Now       func() time.Time
	Log       *slog.Logger
}

// NewDispatcher wires the collaborators with default clustering and clock.
func NewDispatcher(engine ocr.Engine, market marketdata.Provider, languages []string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		OCR:       engine,
		Languages: languages,
		Market:    market,
		Cluster:   cluster.KMeans,
		Seed:      cluster.DefaultSeed,
		Now:       time.Now,
		Log:       log,
	}
}

// Analyze runs req. Every failure is returned as a *models.OpError.
func (d *Dispatcher) Analyze(ctx context.Context, req Request) (Result, error) {
	res := Result{Mode: req.Mode}
	var err error

	switch req.Mode {
	case Supervised:
		res.Text, err = d.extractText(ctx, req)
	case SemiSupervised:
		res.Market, err = d.marketHistory(ctx, req.Stock)
	case Unsupervised:
		res.Clusters, err = d.clusterTable(req.CSV, req.K)
	default:
		err = models.NewError("analysis.analyze", models.KindInvalidInput, fmt.Errorf("unknown mode %d", int(req.Mode)))
	}
	if err != nil {
		d.Log.Warn("analysis.failed", "mode", req.Mode.String(), "kind", models.KindOf(err), "err", err)
		return res, err
	}
	return res, nil
}

func (d *Dispatcher) extractText(ctx context.Context, req Request) (*TextResult, error) {
	const op = "analysis.supervised"

	if len(req.Document.Data) == 0 {
		return nil, models.NewError(op, models.KindInvalidInput, fmt.Errorf("no image uploaded"))
	}
	format, _, err := ocr.Sniff(req.Document.Data)
	if err != nil {
		return nil, models.NewError(op, models.KindOcrUnavailable, err)
	}
	if d.OCR == nil {
		return nil, models.NewError(op, models.KindOcrUnavailable, fmt.Errorf("no ocr engine configured"))
	}

	out, err := d.OCR.Recognize(ctx, ocr.Input{
		Image:     req.Document.Data,
		Format:    format,
		Languages: d.Languages,
	})
	if err != nil {
		return nil, models.NewError(op, models.KindOcrUnavailable, err)
	}

	words := WordFrequency(out.PlainText)
	return &TextResult{
		DocType:   req.DocType,
		Format:    format,
		Text:      out.PlainText,
		Words:     words,
		TopWords:  Top(words, TopWords),
		Engine:    d.OCR.Name(),
		Languages: d.Languages,
	}, nil
}

func (d *Dispatcher) marketHistory(ctx context.Context, stock models.Stock) (*MarketResult, error) {
	const op = "analysis.semi_supervised"

	if stock.Symbol == "" {
		return nil, models.NewError(op, models.KindInvalidInput, fmt.Errorf("no stock selected"))
	}
	if d.Market == nil {
		return nil, models.NewError(op, models.KindDataUnavailable, fmt.Errorf("no market data provider configured"))
	}

	now := d.Now()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	res := &MarketResult{Stock: stock, From: to.AddDate(0, 0, -HistoryDays), To: to}

	latest, err := d.Market.Latest(ctx, stock.Symbol)
	switch {
	case err != nil:
		res.LatestErr = models.NewError(op, models.KindDataUnavailable, err)
	case latest == nil:
		res.LatestErr = models.NewError(op, models.KindDataUnavailable, fmt.Errorf("no intraday price for %s", stock.Symbol))
	default:
		res.Latest = latest
	}

	bars, err := d.Market.History(ctx, stock.Symbol, res.From, res.To)
	switch {
	case err != nil:
		res.HistoryErr = models.NewError(op, models.KindDataUnavailable, err)
	case len(bars) == 0:
		res.HistoryErr = models.NewError(op, models.KindDataUnavailable, fmt.Errorf("no daily history for %s", stock.Symbol))
	default:
		res.History = bars
	}

	if res.Latest == nil && len(res.History) == 0 {
		return res, models.NewError(op, models.KindDataUnavailable,
			fmt.Errorf("no market data for %s: %v; %v", stock.Symbol, res.LatestErr, res.HistoryErr))
	}
	return res, nil
}

func (d *Dispatcher) clusterTable(csv []byte, k int) (*ClusterResult, error) {
	const op = "analysis.unsupervised"

	if k < forms.MinClusters || k > forms.MaxClusters {
		return nil, models.FieldError(op, "k", fmt.Sprintf("must be between %d and %d", forms.MinClusters, forms.MaxClusters))
	}
	if len(csv) == 0 {
		return nil, models.NewError(op, models.KindInvalidInput, fmt.Errorf("no csv uploaded"))
	}
	table, err := dataset.ParseCSV(bytes.NewReader(csv))
	if err != nil {
		return nil, models.NewError(op, models.KindInvalidInput, err)
	}

	numeric := table.NumericColumns()
	if len(numeric) < 2 {
		return nil, models.NewError(op, models.KindInsufficientNumericColumns,
			fmt.Errorf("found %d numeric column(s), need 2", len(numeric)))
	}
	if k > table.Rows {
		return nil, models.NewError(op, models.KindInvalidInput,
			fmt.Errorf("k=%d exceeds the %d row(s) in the file", k, table.Rows))
	}

	labels, err := d.Cluster(dataset.Matrix(numeric), k, d.Seed)
	if err != nil {
		return nil, models.NewError(op, models.KindInvalidInput, err)
	}

	counts := make([]ClusterCount, 0, k)
	for c, n := range cluster.Counts(labels, k) {
		if n > 0 {
			counts = append(counts, ClusterCount{Cluster: c, Count: n})
		}
	}

	return &ClusterResult{
		Table:   table,
		Numeric: numeric,
		K:       k,
		Labels:  labels,
		Counts:  counts,
		XName:   numeric[0].Name,
		YName:   numeric[1].Name,
	}, nil
}
