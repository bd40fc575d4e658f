package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

func fullRow() Row {
	return Row{
		1.0, "KOC001", "Ngọc Anh", "Nữ", 1995.0, "8765432109", 912345678.0,
		"ngocanh@example.com", "Hà Nội", 500000.0, "Làm đẹp",
		"https://tiktok.com/@ngocanh", 120000.0, "Chilly", 4.5,
		"05/03/2024", 30000.0, "https://tiktok.com/@ngocanh/video/1",
		2000000.0, 5500000.0, "warm", "done", "Micro", "high", "note",
	}
}

func TestRowToKOC(t *testing.T) {
	k := RowToKOC(fullRow(), 7)

	assert.Equal(t, 7, k.RowID)
	assert.Equal(t, 1, k.Seq)
	assert.Equal(t, "KOC001", k.ID)
	assert.Equal(t, "Ngọc Anh", k.Name)
	assert.Equal(t, domain.GenderFemale, k.Gender)
	assert.Equal(t, 1995, k.BirthYear)
	// Numeric phone cells are coerced to strings.
	assert.Equal(t, "912345678", k.Phone)
	assert.Equal(t, "Hà Nội", k.Province)
	assert.Equal(t, domain.BrandChilly, k.Brand)
	assert.Equal(t, 4.5, k.EngagementRate)
	assert.Equal(t, "2024-03-05", k.CooperationDate)
	assert.Equal(t, 5500000.0, k.Revenue3M)
	assert.Equal(t, domain.TierMicro, k.Tier)
}

func TestRowToKOCDefaults(t *testing.T) {
	// A short row with only a name: every other field gets its
	// documented default, never a zero-value surprise downstream.
	k := RowToKOC(Row{nil, nil, "Minh"}, 2)

	assert.Equal(t, "Minh", k.Name)
	assert.Equal(t, 0, k.Seq)
	assert.Equal(t, "", k.ID)
	assert.Equal(t, domain.GenderOther, k.Gender)
	assert.Equal(t, 0, k.BirthYear)
	assert.Equal(t, "", k.Phone)
	assert.Equal(t, 0.0, k.UnitPrice)
	assert.Equal(t, domain.BrandSachi, k.Brand)
	assert.Equal(t, domain.TierNano, k.Tier)
	assert.Equal(t, "", k.CooperationDate)
	assert.Equal(t, 0, k.Followers)
}

func TestRowToKOCUnknownEnumValues(t *testing.T) {
	row := fullRow()
	row[colGender] = "unknown"
	row[colBrand] = "NotABrand"
	row[colTier] = "Giga"

	k := RowToKOC(row, 2)
	assert.Equal(t, domain.GenderOther, k.Gender)
	assert.Equal(t, domain.BrandSachi, k.Brand)
	assert.Equal(t, domain.TierNano, k.Tier)
}

func TestKOCToRowLeavesSeqAndIDBlank(t *testing.T) {
	k := domain.KOC{
		Seq:  99,
		ID:   "KOC099",
		Name: "Ngọc Anh",
	}
	row := KOCToRow(k)

	require.Len(t, row, columnCount)
	assert.Equal(t, "", row[colSeq])
	assert.Equal(t, "", row[colID])
	assert.Equal(t, "Ngọc Anh", row[colName])
}

func TestRoundTripKeepsFields(t *testing.T) {
	orig := RowToKOC(fullRow(), 5)
	row := KOCToRow(orig)
	row[colSeq] = orig.Seq
	row[colID] = orig.ID

	back := RowToKOC(row, 5)
	assert.Equal(t, orig, back)
}

func TestHasName(t *testing.T) {
	assert.True(t, HasName(Row{1.0, "KOC001", "Minh"}))
	assert.False(t, HasName(Row{1.0, "KOC001", ""}))
	assert.False(t, HasName(Row{1.0, "KOC001", "   "}))
	assert.False(t, HasName(Row{}))
	assert.False(t, HasName(nil))
}
