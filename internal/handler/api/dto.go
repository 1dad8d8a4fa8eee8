package api

import (
	"MarketGate/internal/domain/models"
	"MarketGate/internal/usecase"

	"github.com/shopspring/decimal"
)

// Number writes a decimal as a bare JSON number, or null when absent.
type Number decimal.NullDecimal

func NewNumber(d decimal.Decimal) Number { return Number{Decimal: d, Valid: true} }

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Decimal.String()), nil
}

type BarResponse struct {
	Date     string  `json:"date"`
	Open     Number  `json:"open"`
	High     Number  `json:"high"`
	Low      Number  `json:"low"`
	Close    Number  `json:"close"`
	AdjClose *Number `json:"adj_close,omitempty"`
	Volume   *int64  `json:"volume"`
}

type OHLCVResponse struct {
	Symbol string        `json:"symbol"`
	Bars   []BarResponse `json:"bars"`
}

type DividendResponse struct {
	ExDate string `json:"ex_date"`
	Amount Number `json:"amount"`
}

type DividendsResponse struct {
	Symbol    string             `json:"symbol"`
	Dividends []DividendResponse `json:"dividends"`
}

type SplitResponse struct {
	Date  string `json:"date"`
	Ratio Number `json:"ratio"`
}

type SplitsResponse struct {
	Symbol string          `json:"symbol"`
	Splits []SplitResponse `json:"splits"`
}

type InfoResponse struct {
	Symbol string                `json:"symbol"`
	Info   models.InstrumentInfo `json:"info"`
}

type UniverseResponse struct {
	Market  string   `json:"market"`
	Symbols []string `json:"symbols"`
}

func NewOHLCVResponse(res *usecase.GetBarsResult) OHLCVResponse {
	out := OHLCVResponse{Symbol: res.Symbol, Bars: make([]BarResponse, 0, len(res.Bars))}
	for _, b := range res.Bars {
		br := BarResponse{
			Date:   b.Date.Format(models.DateLayout),
			Open:   Number(b.Open),
			High:   Number(b.High),
			Low:    Number(b.Low),
			Close:  Number(b.Close),
			Volume: b.Volume,
		}
		if b.AdjClose.Valid {
			v := Number(b.AdjClose)
			br.AdjClose = &v
		}
		out.Bars = append(out.Bars, br)
	}
	return out
}

func NewDividendsResponse(res *usecase.GetActionsResult) DividendsResponse {
	out := DividendsResponse{Symbol: res.Symbol, Dividends: make([]DividendResponse, 0, len(res.Actions))}
	for _, a := range res.Actions {
		out.Dividends = append(out.Dividends, DividendResponse{ExDate: a.Date.Format(models.DateLayout), Amount: NewNumber(a.Value)})
	}
	return out
}

func NewSplitsResponse(res *usecase.GetActionsResult) SplitsResponse {
	out := SplitsResponse{Symbol: res.Symbol, Splits: make([]SplitResponse, 0, len(res.Actions))}
	for _, a := range res.Actions {
		out.Splits = append(out.Splits, SplitResponse{Date: a.Date.Format(models.DateLayout), Ratio: NewNumber(a.Value)})
	}
	return out
}

func NewInfoResponse(res *usecase.GetInfoResult) InfoResponse {
	info := res.Info
	if info == nil {
		info = models.InstrumentInfo{}
	}
	return InfoResponse{Symbol: res.Symbol, Info: info}
}

func NewUniverseResponse(u models.Universe) UniverseResponse {
	symbols := u.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	return UniverseResponse{Market: u.Market, Symbols: symbols}
}
