// internal/analytics/processor.go
// Package analytics computes the dashboard reductions over a
// date-range-filtered record set. Every computation is a pure
// function of its inputs.
package analytics

import (
	"sort"
	"time"

	"github.com/botuai88-lab/Sohaco-KOC/internal/dates"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
	"github.com/botuai88-lab/Sohaco-KOC/internal/grouping"
)

// provinceBucketLimit caps the province histogram; categories beyond
// the top 6 are merged into a trailing "Other" bucket.
const provinceBucketLimit = 6

// OtherBucketLabel is the label of the merged long-tail bucket.
const OtherBucketLabel = "Khác"

// noDataBrand is the sentinel for best-brand over an empty set.
var noDataBrand = domain.BrandRevenue{Name: "N/A", Revenue: 0}

// FilterByRange keeps records whose cooperation date falls inside the
// range. With no bounds set the input is returned unchanged, empty
// dates included; once a bound is set, records without a parseable
// date are excluded.
func FilterByRange(records []domain.KOC, r domain.DateRange) []domain.KOC {
	if r.IsZero() {
		return records
	}

	var start, end time.Time
	var hasStart, hasEnd bool
	if t, ok := dates.ParseCanonical(r.Start); ok {
		start, hasStart = t, true
	}
	if t, ok := dates.ParseCanonical(r.End); ok {
		end, hasEnd = t.Add(24*time.Hour-time.Nanosecond), true
	}

	out := make([]domain.KOC, 0, len(records))
	for _, k := range records {
		t, ok := dates.ParseCanonical(k.CooperationDate)
		if !ok {
			continue
		}
		if hasStart && t.Before(start) {
			continue
		}
		if hasEnd && t.After(end) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Summarize computes the stat cards, histograms and trend for the
// given filtered set.
func Summarize(records []domain.KOC) domain.DashboardSummary {
	return domain.DashboardSummary{
		UniqueKOCs:   grouping.UniqueEntityCount(records),
		TotalRevenue: totalRevenue(records),
		BestBrand:    bestBrand(records),
		ByBrand:      brandHistogram(records),
		ByProvince:   provinceHistogram(records),
		Trend:        trend(records),
	}
}

// totalRevenue sums the 3-month revenue of every collaboration; it is
// deliberately not deduplicated by entity.
func totalRevenue(records []domain.KOC) float64 {
	var sum float64
	for _, k := range records {
		sum += k.Revenue3M
	}
	return sum
}

// bestBrand finds the brand with the highest summed 3-month revenue.
// Ties go to the brand encountered first; an empty set yields the
// "N/A" sentinel.
func bestBrand(records []domain.KOC) domain.BrandRevenue {
	if len(records) == 0 {
		return noDataBrand
	}

	sums := make(map[domain.Brand]float64)
	var order []domain.Brand
	for _, k := range records {
		if _, seen := sums[k.Brand]; !seen {
			order = append(order, k.Brand)
		}
		sums[k.Brand] += k.Revenue3M
	}

	best := order[0]
	for _, b := range order[1:] {
		if sums[b] > sums[best] {
			best = b
		}
	}
	return domain.BrandRevenue{Name: string(best), Revenue: sums[best]}
}

// brandHistogram counts collaborations per brand in first-encounter
// order. No long-tail collapsing.
func brandHistogram(records []domain.KOC) []domain.ChartBucket {
	counts := make(map[domain.Brand]int)
	var order []domain.Brand
	for _, k := range records {
		if k.Brand == "" {
			continue
		}
		if _, seen := counts[k.Brand]; !seen {
			order = append(order, k.Brand)
		}
		counts[k.Brand]++
	}

	buckets := make([]domain.ChartBucket, 0, len(order))
	for _, b := range order {
		buckets = append(buckets, domain.ChartBucket{Name: string(b), Value: counts[b]})
	}
	return buckets
}

// provinceHistogram counts records per province, descending by count.
// Provinces beyond the top 6 are merged into a final "Khác" bucket.
func provinceHistogram(records []domain.KOC) []domain.ChartBucket {
	counts := make(map[string]int)
	var order []string
	for _, k := range records {
		if k.Province == "" {
			continue
		}
		if _, seen := counts[k.Province]; !seen {
			order = append(order, k.Province)
		}
		counts[k.Province]++
	}

	buckets := make([]domain.ChartBucket, 0, len(order))
	for _, p := range order {
		buckets = append(buckets, domain.ChartBucket{Name: p, Value: counts[p]})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})

	if len(buckets) <= provinceBucketLimit+1 {
		return buckets
	}
	var tail int
	for _, b := range buckets[provinceBucketLimit:] {
		tail += b.Value
	}
	return append(buckets[:provinceBucketLimit:provinceBucketLimit],
		domain.ChartBucket{Name: OtherBucketLabel, Value: tail})
}

// trend counts collaborations per calendar month, restricted to
// records with an exact canonical date, ordered chronologically.
func trend(records []domain.KOC) []domain.TrendPoint {
	type bucket struct{ month, year int }
	counts := make(map[bucket]int)
	for _, k := range records {
		t, ok := dates.ParseCanonical(k.CooperationDate)
		if !ok {
			continue
		}
		counts[bucket{int(t.Month()), t.Year()}]++
	}

	points := make([]domain.TrendPoint, 0, len(counts))
	for b, n := range counts {
		points = append(points, domain.TrendPoint{Month: b.month, Year: b.year, Count: n})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// Leaderboards computes the two brand-scoped top-N views. The monthly
// board ranks the current calendar month's collaborations by 1-month
// revenue (top 10); the quarterly board ranks the trailing three
// calendar months, counted from day 1 two months back, by 3-month
// revenue (top 5). Both keep prior relative order on revenue ties.
func Leaderboards(records []domain.KOC, monthly, quarterly domain.Brand, now time.Time) domain.Leaderboards {
	return domain.Leaderboards{
		MonthlyBrand:   monthly,
		QuarterlyBrand: quarterly,
		TopMonthly:     topMonthly(records, monthly, now),
		TopQuarterly:   topQuarterly(records, quarterly, now),
	}
}

func topMonthly(records []domain.KOC, brand domain.Brand, now time.Time) []domain.KOC {
	var matched []domain.KOC
	for _, k := range records {
		if k.Brand != brand {
			continue
		}
		t, ok := dates.ParseCanonical(k.CooperationDate)
		if !ok {
			continue
		}
		if t.Month() == now.Month() && t.Year() == now.Year() {
			matched = append(matched, k)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Revenue1M > matched[j].Revenue1M
	})
	return head(matched, 10)
}

func topQuarterly(records []domain.KOC, brand domain.Brand, now time.Time) []domain.KOC {
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)

	var matched []domain.KOC
	for _, k := range records {
		if k.Brand != brand {
			continue
		}
		t, ok := dates.ParseCanonical(k.CooperationDate)
		if !ok {
			continue
		}
		if !t.Before(windowStart) {
			matched = append(matched, k)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Revenue3M > matched[j].Revenue3M
	})
	return head(matched, 5)
}

func head(ks []domain.KOC, n int) []domain.KOC {
	if len(ks) > n {
		ks = ks[:n]
	}
	return ks
}
