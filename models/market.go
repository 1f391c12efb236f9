package models

import "time"

// Stock is one of the fixed tickers offered on the market screen.
type Stock struct {
	Name   string
	Symbol string
}

// Quote is the most recent intraday price point.
type Quote struct {
	Symbol string
	Price  float64
	At     time.Time
}

// PriceBar is one day of OHLCV data.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Stocks is the fixed set of tickers offered on the market screen.
var Stocks = []Stock{
	{Name: "Apple", Symbol: "AAPL"},
	{Name: "Google", Symbol: "GOOG"},
	{Name: "Microsoft", Symbol: "MSFT"},
	{Name: "Amazon", Symbol: "AMZN"},
	{Name: "Tesla", Symbol: "TSLA"},
}
