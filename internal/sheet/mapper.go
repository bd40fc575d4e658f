// internal/sheet/mapper.go
package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/botuai88-lab/Sohaco-KOC/internal/dates"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

// The sheet stores one collaboration per row in a fixed 25-column
// positional layout. Reordering breaks every consumer, including the
// deployed Apps Script.
const (
	colSeq = iota
	colID
	colName
	colGender
	colBirthYear
	colTaxCode
	colPhone
	colEmail
	colProvince
	colUnitPrice
	colMainField
	colProfileLink
	colFollowers
	colBrand
	colEngagementRate
	colCooperationDate
	colAvgViews
	colPostedContentLink
	colRevenue1M
	colRevenue3M
	colVoice
	colProgress
	colTier
	colPotential
	colNotes

	columnCount
)

// Row is the raw positional row shape exchanged with the gateway.
// Cells are untyped because the spreadsheet may hand back strings or
// numbers for the same column.
type Row []any

// RowToKOC maps a raw row onto a record. Every column has a defined
// default: numbers 0, enums their fallback, strings "". Phone is
// always coerced to a string since the sheet may store it numerically.
func RowToKOC(row Row, rowID int) domain.KOC {
	return domain.KOC{
		RowID:             rowID,
		Seq:               cellInt(row, colSeq),
		ID:                cellString(row, colID),
		Name:              cellString(row, colName),
		Gender:            domain.ParseGender(cellString(row, colGender)),
		BirthYear:         cellInt(row, colBirthYear),
		TaxCode:           cellString(row, colTaxCode),
		Phone:             cellPhone(row, colPhone),
		Email:             cellString(row, colEmail),
		Province:          cellString(row, colProvince),
		UnitPrice:         cellFloat(row, colUnitPrice),
		MainField:         cellString(row, colMainField),
		ProfileLink:       cellString(row, colProfileLink),
		Followers:         cellInt(row, colFollowers),
		Brand:             domain.ParseBrand(cellString(row, colBrand)),
		EngagementRate:    cellFloat(row, colEngagementRate),
		CooperationDate:   dates.ToCanonical(cell(row, colCooperationDate)),
		AvgViews:          cellInt(row, colAvgViews),
		PostedContentLink: cellString(row, colPostedContentLink),
		Revenue1M:         cellFloat(row, colRevenue1M),
		Revenue3M:         cellFloat(row, colRevenue3M),
		Voice:             cellString(row, colVoice),
		Progress:          cellString(row, colProgress),
		Tier:              domain.ParseTier(cellString(row, colTier)),
		Potential:         cellString(row, colPotential),
		Notes:             cellString(row, colNotes),
	}
}

// KOCToRow is the inverse mapping. Sequence and identifier are left
// blank: the storage side assigns them on create. Update callers
// overwrite those two cells with the client-held values afterwards.
func KOCToRow(k domain.KOC) Row {
	row := make(Row, columnCount)
	row[colSeq] = ""
	row[colID] = ""
	row[colName] = k.Name
	row[colGender] = string(k.Gender)
	row[colBirthYear] = k.BirthYear
	row[colTaxCode] = k.TaxCode
	row[colPhone] = k.Phone
	row[colEmail] = k.Email
	row[colProvince] = k.Province
	row[colUnitPrice] = k.UnitPrice
	row[colMainField] = k.MainField
	row[colProfileLink] = k.ProfileLink
	row[colFollowers] = k.Followers
	row[colBrand] = string(k.Brand)
	row[colEngagementRate] = k.EngagementRate
	row[colCooperationDate] = k.CooperationDate
	row[colAvgViews] = k.AvgViews
	row[colPostedContentLink] = k.PostedContentLink
	row[colRevenue1M] = k.Revenue1M
	row[colRevenue3M] = k.Revenue3M
	row[colVoice] = k.Voice
	row[colProgress] = k.Progress
	row[colTier] = string(k.Tier)
	row[colPotential] = k.Potential
	row[colNotes] = k.Notes
	return row
}

// HasName reports whether the row carries a non-empty name cell.
// Fetch-all drops rows without one.
func HasName(row Row) bool {
	return cellString(row, colName) != ""
}

func cell(row Row, idx int) any {
	if idx >= len(row) {
		return nil
	}
	return row[idx]
}

func cellString(row Row, idx int) string {
	switch v := cell(row, idx).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// cellPhone keeps leading zeros when the sheet already stores a
// string, and re-renders numeric cells without an exponent.
func cellPhone(row Row, idx int) string {
	return cellString(row, idx)
}

func cellFloat(row Row, idx int) float64 {
	switch v := cell(row, idx).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func cellInt(row Row, idx int) int {
	return int(cellFloat(row, idx))
}
