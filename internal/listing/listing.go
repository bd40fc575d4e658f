// internal/listing/listing.go
// Package listing applies the management-view pipeline to entity
// groups: compound filtering, single-key stable sorting and
// fixed-size pagination.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

// PageSize is the fixed number of groups per page.
const PageSize = 10

// Filter is a conjunction of independently optional clauses. A zero
// clause (empty string or empty slice) always passes.
type Filter struct {
	Search       string
	Brands       []domain.Brand
	Province     string
	MainField    string
	Tiers        []domain.KOCTier
	FollowersMin *int
	FollowersMax *int
}

// Sort selects a single record field on the representative and a
// direction. The zero value means "no sort" and keeps grouping order.
type Sort struct {
	Key        string
	Descending bool
}

// Toggle returns the sort that results from selecting key again:
// first selection ascending, selecting the same key flips direction.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key && !s.Descending {
		return Sort{Key: key, Descending: true}
	}
	return Sort{Key: key}
}

// sheet data is Vietnamese; collation follows the data's language.
var collator = collate.New(language.Vietnamese)

// Apply runs filter, sort and pagination in that order and returns
// the page slice plus the total number of groups after filtering.
func Apply(groups []domain.EntityGroup, f Filter, s Sort, page int) ([]domain.EntityGroup, int) {
	filtered := ApplyFilter(groups, f)
	ApplySort(filtered, s)
	return Paginate(filtered, page), len(filtered)
}

// ApplyFilter returns the groups matching every set clause.
func ApplyFilter(groups []domain.EntityGroup, f Filter) []domain.EntityGroup {
	out := make([]domain.EntityGroup, 0, len(groups))
	for _, g := range groups {
		if matches(g, f) {
			out = append(out, g)
		}
	}
	return out
}

func matches(g domain.EntityGroup, f Filter) bool {
	if f.Search != "" && !matchesSearch(g, f.Search) {
		return false
	}
	if len(f.Brands) > 0 && !matchesAnyBrand(g, f.Brands) {
		return false
	}
	if f.Province != "" && g.MainInfo.Province != f.Province {
		return false
	}
	if f.MainField != "" && g.MainInfo.MainField != f.MainField {
		return false
	}
	if len(f.Tiers) > 0 && !containsTier(f.Tiers, g.MainInfo.Tier) {
		return false
	}
	if f.FollowersMin != nil && g.MainInfo.Followers < *f.FollowersMin {
		return false
	}
	if f.FollowersMax != nil && g.MainInfo.Followers > *f.FollowersMax {
		return false
	}
	return true
}

// matchesSearch checks the query, case-insensitively, against name,
// identifier, tax code, phone and email of every record in the
// group's history.
func matchesSearch(g domain.EntityGroup, query string) bool {
	q := strings.ToLower(query)
	for _, k := range g.Collaborations {
		if strings.Contains(strings.ToLower(k.Name), q) ||
			strings.Contains(strings.ToLower(k.ID), q) ||
			strings.Contains(strings.ToLower(k.TaxCode), q) ||
			strings.Contains(k.Phone, query) ||
			strings.Contains(strings.ToLower(k.Email), q) {
			return true
		}
	}
	return false
}

func matchesAnyBrand(g domain.EntityGroup, brands []domain.Brand) bool {
	for _, k := range g.Collaborations {
		for _, b := range brands {
			if k.Brand == b {
				return true
			}
		}
	}
	return false
}

func containsTier(tiers []domain.KOCTier, t domain.KOCTier) bool {
	for _, candidate := range tiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ApplySort orders groups in place by the selected representative
// field. String fields use Vietnamese collation, numeric fields use
// natural ordering; ties keep their prior relative order.
func ApplySort(groups []domain.EntityGroup, s Sort) {
	if s.Key == "" {
		return
	}
	sort.SliceStable(groups, func(i, j int) bool {
		less := compare(groups[i].MainInfo, groups[j].MainInfo, s.Key)
		if s.Descending {
			return less > 0
		}
		return less < 0
	})
}

func compare(a, b domain.KOC, key string) int {
	if av, bv, ok := numericValues(a, b, key); ok {
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
	return collator.CompareString(stringValue(a, key), stringValue(b, key))
}

func numericValues(a, b domain.KOC, key string) (float64, float64, bool) {
	get := func(k domain.KOC) (float64, bool) {
		switch key {
		case "stt":
			return float64(k.Seq), true
		case "birthYear":
			return float64(k.BirthYear), true
		case "unitPrice":
			return k.UnitPrice, true
		case "followers":
			return float64(k.Followers), true
		case "engagementRate":
			return k.EngagementRate, true
		case "avgViews":
			return float64(k.AvgViews), true
		case "revenue1m":
			return k.Revenue1M, true
		case "revenue3m":
			return k.Revenue3M, true
		default:
			return 0, false
		}
	}
	av, ok := get(a)
	if !ok {
		return 0, 0, false
	}
	bv, _ := get(b)
	return av, bv, true
}

func stringValue(k domain.KOC, key string) string {
	switch key {
	case "id":
		return k.ID
	case "name":
		return k.Name
	case "gender":
		return string(k.Gender)
	case "taxCode":
		return k.TaxCode
	case "phone":
		return k.Phone
	case "email":
		return k.Email
	case "address":
		return k.Province
	case "mainField":
		return k.MainField
	case "brand":
		return string(k.Brand)
	case "cooperationDate":
		return k.CooperationDate
	case "kocType":
		return string(k.Tier)
	default:
		return ""
	}
}

// Paginate slices one page out of the groups. Pages are 1-based; a
// page past the end yields an empty slice, never an error. Resetting
// the page index on filter changes is the caller's concern.
func Paginate(groups []domain.EntityGroup, page int) []domain.EntityGroup {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(groups) {
		return []domain.EntityGroup{}
	}
	end := start + PageSize
	if end > len(groups) {
		end = len(groups)
	}
	return groups[start:end]
}
