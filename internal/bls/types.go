// Package bls implements a client for the BLS public data API v2
// (timeseries endpoint), used to pull American Time Use Survey series.
package bls

// request is the JSON payload for the v2 multi-series POST endpoint.
type request struct {
	SeriesIDs       []string `json:"seriesid"`
	StartYear       string   `json:"startyear,omitempty"`
	EndYear         string   `json:"endyear,omitempty"`
	Catalog         bool     `json:"catalog,omitempty"`
	Calculations    bool     `json:"calculations,omitempty"`
	AnnualAverage   bool     `json:"annualaverage,omitempty"`
	Latest          bool     `json:"latest,omitempty"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

// Response is the BLS API v2 response envelope.
type Response struct {
	Status       string   `json:"status"`
	ResponseTime int      `json:"responseTime"`
	Message      []string `json:"message"`
	Results      Results  `json:"Results"`
}

// Results holds the series returned by a timeseries query.
type Results struct {
	Series []Series `json:"series"`
}

// Series is one time series with its data points and optional catalog info.
type Series struct {
	SeriesID string      `json:"seriesID"`
	Catalog  *Catalog    `json:"catalog,omitempty"`
	Data     []DataPoint `json:"data"`
}

// Catalog holds series metadata, only present when requested.
type Catalog struct {
	SeriesTitle string `json:"series_title"`
	SurveyName  string `json:"survey_name"`
}

// DataPoint is one observation within a series. Values are strings on
// the wire; a value of "-" means no data for that period.
type DataPoint struct {
	Year       string     `json:"year"`
	Period     string     `json:"period"`
	PeriodName string     `json:"periodName"`
	Value      string     `json:"value"`
	Latest     string     `json:"latest,omitempty"`
	Footnotes  []Footnote `json:"footnotes,omitempty"`
}

// Footnote annotates a data point, e.g. preliminary or suppressed values.
type Footnote struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text,omitempty"`
}

// statusSucceeded is the only status value that carries usable results.
const statusSucceeded = "REQUEST_SUCCEEDED"

// missingValue marks periods with no published estimate.
const missingValue = "-"
