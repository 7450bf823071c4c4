package transport

type StatsRequest struct {
	Period string `form:"period" validate:"omitempty,oneof=week month"`
}

type FunnelStage struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type FunnelResponse struct {
	TotalLeads     int           `json:"totalLeads"`
	Stages         []FunnelStage `json:"stages"`
	ConversionRate int           `json:"conversionRate"`
}

// Metric compares a period with the one before it. Trend is a whole
// percentage.
type Metric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Trend    int     `json:"trend"`
}

type StatsResponse struct {
	Period         string  `json:"period"`
	NewLeads       Metric  `json:"newLeads"`
	Conversions    Metric  `json:"conversions"`
	WonDealValue   Metric  `json:"wonDealValue"`
	Interactions   Metric  `json:"interactions"`
	PipelineValue  float64 `json:"pipelineValue"`
	ConversionRate int     `json:"conversionRate"`
}
