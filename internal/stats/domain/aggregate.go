// Package domain holds the pure funnel and trend arithmetic.
package domain

import "math"

// FunnelStages are the lead statuses shown in the funnel, in order. Lost
// leads are counted in the total but have no stage of their own.
var FunnelStages = []string{"new", "contacted", "interested", "negotiating", "converted"}

// Round rounds half up: 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percentage is round(part/total*100), or 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return Round(float64(part) / float64(total) * 100)
}

// Trend is round((current-previous)/previous*100), or 0 when previous is 0.
func Trend(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return Round((current - previous) / previous * 100)
}

// Stage is one funnel row.
type Stage struct {
	Status     string
	Count      int
	Percentage int
}

// Funnel is the lead funnel with its conversion rate.
type Funnel struct {
	Total          int
	Stages         []Stage
	ConversionRate int
}

// BuildFunnel computes stage shares against every lead, lost ones
// included, and the conversion rate against the funnel stages only.
func BuildFunnel(counts map[string]int) Funnel {
	total := 0
	for _, n := range counts {
		total += n
	}

	funnelTotal := 0
	stages := make([]Stage, 0, len(FunnelStages))
	for _, status := range FunnelStages {
		n := counts[status]
		funnelTotal += n
		stages = append(stages, Stage{Status: status, Count: n, Percentage: Percentage(n, total)})
	}

	return Funnel{
		Total:          total,
		Stages:         stages,
		ConversionRate: Percentage(counts["converted"], funnelTotal),
	}
}
