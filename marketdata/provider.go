// Package marketdata fetches intraday and daily prices for the fixed ticker set.
package marketdata

import (
	"context"
	"time"

	"bfsiocr/models"
)

// Provider is the market-data collaborator. Empty results are legitimate
// (weekends, holidays) and are reported as a nil quote or an empty slice.
type Provider interface {
	// Latest returns the most recent 1-minute close of the current session.
	Latest(ctx context.Context, symbol string) (*models.Quote, error)
	// History returns daily bars with from <= date < to.
	History(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}
