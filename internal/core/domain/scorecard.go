package domain

// Quarter is a calendar quarter label as it appears in the source datasets.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// quarterOrder maps a quarter label to its position within the year.
// Unknown labels sort first so malformed rows never win a recency race.
var quarterOrder = map[Quarter]int{Q1: 1, Q2: 2, Q3: 3, Q4: 4}

// After reports whether quarter q of year is more recent than q2 of year2.
func (q Quarter) After(year int, q2 Quarter, year2 int) bool {
	if year != year2 {
		return year > year2
	}
	return quarterOrder[q] > quarterOrder[q2]
}

// DeliriumRate is the observed delirium rate for one ward in one quarter.
type DeliriumRate struct {
	Quarter Quarter `json:"quarter"`
	Year    int     `json:"year"`
	Rate    float64 `json:"rate"`
	Ward    string  `json:"ward"`
}

// TimeSeriesPoint compares the GIM ward against all other wards for one period.
type TimeSeriesPoint struct {
	Period     string  `json:"period"`
	GIM        float64 `json:"gim"`
	OtherWards float64 `json:"other_wards"`
}

// DemographicValue is a single measured value with its units. Value and
// StandardDeviation are nil when the source cell was blank or NaN.
type DemographicValue struct {
	Value             *float64 `json:"value"`
	Units             string   `json:"units"`
	StandardDeviation *float64 `json:"standard_deviation,omitempty"`
}

// DemographicItem contrasts the most recent cohort with the model training
// cohort for one patient attribute.
type DemographicItem struct {
	Recent                 DemographicValue `json:"recent"`
	Training               DemographicValue `json:"training"`
	StandardMeanDifference DemographicValue `json:"standard_mean_difference"`
}

// PatientDemographics is the demographics table for the most recent quarter.
type PatientDemographics struct {
	Data          map[string]DemographicItem `json:"data"`
	RecentQuarter Quarter                    `json:"recent_quarter"`
	RecentYear    int                        `json:"recent_year"`
}
