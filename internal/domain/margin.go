package domain

import "math"

// ProfitMargin returns the percentage of the total left after both costs, rounded to two
// decimals. A zero or negative total yields 0.
func ProfitMargin(totalAmount, operatingCost, productionCost float64) float64 {
	if totalAmount <= 0 {
		return 0
	}
	margin := ((totalAmount - (operatingCost + productionCost)) / totalAmount) * 100
	return math.Round(margin*100) / 100
}

// MarginIsStale reports whether a persisted margin disagrees with its inputs
func (p *Project) MarginIsStale() bool {
	return math.Abs(p.ProfitMargin-ProfitMargin(p.TotalAmount, p.OperatingCost, p.ProductionCost)) >= 0.005
}
