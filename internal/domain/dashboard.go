package domain

// DateRange filters dashboard reductions by cooperation date.
// Both bounds are canonical yyyy-mm-dd strings; an empty bound is
// unconstrained. Start is inclusive, End is end-of-day inclusive.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool { return r.Start == "" && r.End == "" }

// BrandRevenue is the best-performing-brand stat card. Name is "N/A"
// with zero revenue when the filtered set is empty.
type BrandRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// ChartBucket is one slice of a categorical histogram.
type ChartBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendPoint counts collaborations in one month/year bucket.
type TrendPoint struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Count int `json:"count"`
}

// DashboardSummary aggregates all stat cards and charts for one
// date-range filter.
type DashboardSummary struct {
	UniqueKOCs   int           `json:"uniqueKocs"`
	TotalRevenue float64       `json:"totalRevenue"`
	BestBrand    BrandRevenue  `json:"bestBrand"`
	ByBrand      []ChartBucket `json:"byBrand"`
	ByProvince   []ChartBucket `json:"byProvince"`
	Trend        []TrendPoint  `json:"trend"`
}

// Leaderboards holds the two brand-scoped top-N views: monthly top 10
// by 1-month revenue and trailing-quarter top 5 by 3-month revenue.
type Leaderboards struct {
	MonthlyBrand   Brand `json:"monthlyBrand"`
	QuarterlyBrand Brand `json:"quarterlyBrand"`
	TopMonthly     []KOC `json:"topMonthly"`
	TopQuarterly   []KOC `json:"topQuarterly"`
}
