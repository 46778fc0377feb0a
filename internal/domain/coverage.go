package domain

import "math"

// Analysis parameters.
const (
	// WinterDays spans 1 November to 31 March.
	WinterDays = 151

	// WinterConsumptionFactor is the share of annual demand consumed in winter (Eurostat nrg_cb_gasm).
	WinterConsumptionFactor = 0.55

	// MinStorageLevel is the minimum EU storage level relative to capacity, observed April 2018 (AGSI).
	MinStorageLevel = 0.18
)

// Annual consumption figures in TWh (Eurostat nrg_cb_gas, EU27 average 2017-2021).
const (
	EUYearConsumption = 4287.4
	ESYearConsumption = 638.6
	PTYearConsumption = 66.8

	// EUYearConsumptionAGSI is the EU figure reported by AGSI, used by the pipeline report.
	EUYearConsumptionAGSI = 4151.8
)

// ExportCapacityESFR is the firm Spain to France pipeline capacity in GWh/d.
// It caps how much Iberian LNG can reach the rest of the EU.
const ExportCapacityESFR = 226.0

// WinterConsumption returns the winter share of an annual consumption, in TWh.
func WinterConsumption(yearTWh float64) float64 {
	return yearTWh * WinterConsumptionFactor
}

// DailyWinterConsumption returns the average winter day consumption, in TWh/d.
func DailyWinterConsumption(yearTWh float64) float64 {
	return WinterConsumption(yearTWh) / WinterDays
}

// DaysCoveredByFlow returns how many winter days of demand a flow of flowGWhd,
// sustained for the whole winter, supplies. Zero or negative demand yields 0.
func DaysCoveredByFlow(flowGWhd, winterConsTWh float64) int {
	if winterConsTWh <= 0 {
		return 0
	}
	share := flowGWhd * WinterDays / (winterConsTWh * 1000)
	return roundHalfEven(WinterDays * share)
}

// DaysCoveredByStock returns how many winter days a stock of stockTWh covers,
// keeping MinStorageLevel of it in reserve.
func DaysCoveredByStock(stockTWh, yearTWh float64) int {
	daily := DailyWinterConsumption(yearTWh)
	if daily <= 0 {
		return 0
	}
	return roundHalfEven(stockTWh * (1 - MinStorageLevel) / daily)
}

// SendOutTWhd converts a send-out capacity from GWh/d to TWh/d, rounded to two decimals.
func SendOutTWhd(dtrsGWhd float64) float64 {
	return math.RoundToEven(dtrsGWhd/10) / 100
}

// roundHalfEven rounds v to the nearest integer. NaN and infinities give 0.
func roundHalfEven(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.RoundToEven(v))
}
