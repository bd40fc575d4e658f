// internal/domain/koc.go
package domain

import (
	"fmt"
	"strings"
)

// Gender of a KOC. Values are the Vietnamese labels stored in the sheet.
type Gender string

const (
	GenderMale   Gender = "Nam"
	GenderFemale Gender = "Nữ"
	GenderOther  Gender = "Khác"
)

// Brand is one of the five consumer brands a collaboration belongs to.
type Brand string

const (
	BrandSachi    Brand = "Sachi"
	BrandChilly   Brand = "Chilly"
	BrandFysoline Brand = "Fysoline"
	BrandProspan  Brand = "Prospan"
	BrandKan      Brand = "Kan"
)

// KOCTier classifies a KOC by audience size.
type KOCTier string

const (
	TierNano  KOCTier = "Nano"
	TierMicro KOCTier = "Micro"
	TierMacro KOCTier = "Macro"
	TierMega  KOCTier = "Mega"
)

// ParseGender maps a raw sheet value to a Gender, defaulting to Other.
func ParseGender(raw string) Gender {
	switch Gender(strings.TrimSpace(raw)) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	case GenderOther:
		return GenderOther
	default:
		return GenderOther
	}
}

// ParseBrand maps a raw sheet value to a Brand, defaulting to Sachi.
func ParseBrand(raw string) Brand {
	switch Brand(strings.TrimSpace(raw)) {
	case BrandSachi, BrandChilly, BrandFysoline, BrandProspan, BrandKan:
		return Brand(strings.TrimSpace(raw))
	default:
		return BrandSachi
	}
}

// ParseTier maps a raw sheet value to a KOCTier, defaulting to Nano.
func ParseTier(raw string) KOCTier {
	switch KOCTier(strings.TrimSpace(raw)) {
	case TierNano, TierMicro, TierMacro, TierMega:
		return KOCTier(strings.TrimSpace(raw))
	default:
		return TierNano
	}
}

// KOC is one collaboration row. RowID is the storage position assigned
// by the gateway on fetch; it addresses updates and deletes and must
// stay unique within an in-memory session.
type KOC struct {
	RowID             int     `json:"rowId"`
	Seq               int     `json:"stt"`
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Gender            Gender  `json:"gender"`
	BirthYear         int     `json:"birthYear"`
	TaxCode           string  `json:"taxCode,omitempty"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	Province          string  `json:"address"`
	UnitPrice         float64 `json:"unitPrice"`
	MainField         string  `json:"mainField"`
	ProfileLink       string  `json:"profileLink"`
	Followers         int     `json:"followers"`
	Brand             Brand   `json:"brand"`
	EngagementRate    float64 `json:"engagementRate"`
	CooperationDate   string  `json:"cooperationDate"` // canonical yyyy-mm-dd or empty
	AvgViews          int     `json:"avgViews"`
	PostedContentLink string  `json:"postedContentLink,omitempty"`
	Revenue1M         float64 `json:"revenue1m"`
	Revenue3M         float64 `json:"revenue3m"`
	Voice             string  `json:"voice,omitempty"`
	Progress          string  `json:"progress,omitempty"`
	Tier              KOCTier `json:"kocType"`
	Potential         string  `json:"potential,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

// FormatKOCID renders the public identifier for a sequence number,
// zero-padded to three digits. This mirrors what the sheet backend
// assigns; the client never invents identifiers for stored rows.
func FormatKOCID(seq int) string {
	return fmt.Sprintf("KOC%03d", seq)
}

// IdentityKey derives the grouping key for the record: the tax code
// when present and not the "-" placeholder, else trimmed name+phone.
// An empty key means the record belongs to no group.
func (k KOC) IdentityKey() string {
	tax := strings.TrimSpace(k.TaxCode)
	if tax != "" && tax != "-" {
		return tax
	}
	name := strings.TrimSpace(k.Name)
	phone := strings.TrimSpace(k.Phone)
	if name == "" && phone == "" {
		return ""
	}
	key := name + "-" + phone
	if key == "-" {
		return ""
	}
	return key
}

// EntityGroup is the derived cluster of collaborations sharing an
// identity key. Collaborations are ordered newest-first; MainInfo is
// the most recent one.
type EntityGroup struct {
	Identifier     string `json:"identifier"`
	MainInfo       KOC    `json:"mainInfo"`
	Collaborations []KOC  `json:"collaborations"`
}

// Brands returns the distinct brands in the group's history, in
// first-seen order.
func (g EntityGroup) Brands() []Brand {
	seen := make(map[Brand]struct{}, len(g.Collaborations))
	var out []Brand
	for _, c := range g.Collaborations {
		if _, ok := seen[c.Brand]; ok {
			continue
		}
		seen[c.Brand] = struct{}{}
		out = append(out, c.Brand)
	}
	return out
}
