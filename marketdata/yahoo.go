package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"bfsiocr/models"
)

// DefaultBaseURL is the public Yahoo Finance chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "Mozilla/5.0 (compatible; bfsiocr/1.0)"

// maxBody caps chart responses; a 1-minute day is well under this.
const maxBody = 4 << 20

// Yahoo reads prices from the Yahoo Finance v8 chart endpoint.
type Yahoo struct {
	baseURL string
	client  *http.Client
}

// NewYahoo returns a Provider backed by the chart API at baseURL.
func NewYahoo(baseURL string, client *http.Client) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = NewHTTPClient(DefaultClientConfig())
	}
	return &Yahoo{baseURL: baseURL, client: client}
}

// Latest returns the last non-empty 1-minute close of today's session, or
// nil when the market has not traded.
func (y *Yahoo) Latest(ctx context.Context, symbol string) (*models.Quote, error) {
	q := url.Values{"interval": {"1m"}, "range": {"1d"}}
	doc, err := y.chart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}

	series, err := readSeries(doc)
	if err != nil || len(series.timestamps) == 0 {
		return nil, nil
	}
	for i := len(series.timestamps) - 1; i >= 0; i-- {
		if c, ok := at(series.close, i); ok {
			return &models.Quote{
				Symbol: symbol,
				Price:  c,
				At:     time.Unix(series.timestamps[i], 0).UTC(),
			}, nil
		}
	}
	return nil, nil
}

// History returns daily OHLCV bars for [from, to). Days with missing values
// are skipped.
func (y *Yahoo) History(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	q := url.Values{
		"interval": {"1d"},
		"period1":  {strconv.FormatInt(from.Unix(), 10)},
		"period2":  {strconv.FormatInt(to.Unix(), 10)},
	}
	doc, err := y.chart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}

	series, err := readSeries(doc)
	if err != nil {
		return nil, nil
	}

	bars := make([]models.PriceBar, 0, len(series.timestamps))
	for i, ts := range series.timestamps {
		o, ok1 := at(series.open, i)
		h, ok2 := at(series.high, i)
		l, ok3 := at(series.low, i)
		c, ok4 := at(series.close, i)
		if !(ok1 && ok2 && ok3 && ok4) {
			continue
		}
		v, _ := at(series.volume, i)
		date := time.Unix(ts, 0).UTC()
		if date.Before(from) || !date.Before(to) {
			continue
		}
		bars = append(bars, models.PriceBar{Date: date, Open: o, High: h, Low: l, Close: c, Volume: int64(v)})
	}
	return bars, nil
}

func (y *Yahoo) chart(ctx context.Context, symbol string, q url.Values) (interface{}, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(symbol), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", symbol, err)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode %s (status %d): %w", symbol, resp.StatusCode, err)
	}

	if apiErr, _ := jsonpath.Get("$.chart.error.description", doc); apiErr != nil {
		return nil, fmt.Errorf("chart api %s: %v", symbol, apiErr)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart api %s: status %d", symbol, resp.StatusCode)
	}
	return doc, nil
}

type series struct {
	timestamps []int64
	open       []interface{}
	high       []interface{}
	low        []interface{}
	close      []interface{}
	volume     []interface{}
}

// readSeries pulls the parallel arrays out of a chart document. The API
// omits "timestamp" entirely when there were no trades.
func readSeries(doc interface{}) (series, error) {
	var s series

	raw, err := jsonpath.Get("$.chart.result[0].timestamp", doc)
	if err != nil {
		return s, err
	}
	ts, ok := raw.([]interface{})
	if !ok {
		return s, fmt.Errorf("timestamp is %T", raw)
	}
	for _, v := range ts {
		f, ok := v.(float64)
		if !ok {
			return s, fmt.Errorf("timestamp value is %T", v)
		}
		s.timestamps = append(s.timestamps, int64(f))
	}

	fields := map[string]*[]interface{}{
		"open":   &s.open,
		"high":   &s.high,
		"low":    &s.low,
		"close":  &s.close,
		"volume": &s.volume,
	}
	for name, dst := range fields {
		v, err := jsonpath.Get("$.chart.result[0].indicators.quote[0]."+name, doc)
		if err != nil {
			continue
		}
		if arr, ok := v.([]interface{}); ok {
			*dst = arr
		}
	}
	return s, nil
}

func at(values []interface{}, i int) (float64, bool) {
	if i >= len(values) {
		return 0, false
	}
	f, ok := values[i].(float64)
	return f, ok
}
