package models

// Requests for the public HTTP endpoints. Defined in domain for reuse by the CLI.

type OHLCVRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Start  string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Adjust string `query:"adjust" json:"adjust" default:"false" validate:"oneof=true false 1 0"`
	Limit  int    `query:"limit" json:"limit" default:"20000" validate:"gte=1,lte=20000"`
	Offset int    `query:"offset" json:"offset" validate:"gte=0"`
}

// Adjusted reports whether split/dividend adjustment was requested.
func (r OHLCVRequest) Adjusted() bool { return r.Adjust == "true" || r.Adjust == "1" }

type ActionsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Start  string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
}

type InfoRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type UniverseRequest struct {
	Market string `query:"market" json:"market" validate:"required"`
}
