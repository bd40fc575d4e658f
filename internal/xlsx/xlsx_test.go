package xlsx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

// workbook builds an in-memory xlsx with the given rows on the first
// sheet and returns its serialized bytes.
func workbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestImportMapsFieldsByHeader(t *testing.T) {
	r := workbook(t, [][]any{
		{"Họ & Tên", "SĐT", "Email", "Nhãn phụ trách", "Loại KOC", "Follower", "Ngày hợp tác", "Doanh số sau 3m"},
		{"Ngọc Anh", "0912345678", "na@example.com", "Chilly", "Micro", 12000, "15/03/2024", 2500000},
	})

	kocs, err := Import(r)
	require.NoError(t, err)
	require.Len(t, kocs, 1)

	k := kocs[0]
	assert.Equal(t, "Ngọc Anh", k.Name)
	assert.Equal(t, "0912345678", k.Phone)
	assert.Equal(t, domain.BrandChilly, k.Brand)
	assert.Equal(t, domain.TierMicro, k.Tier)
	assert.Equal(t, 12000, k.Followers)
	assert.Equal(t, "2024-03-15", k.CooperationDate)
	assert.Equal(t, 2500000.0, k.Revenue3M)
	assert.Zero(t, k.Seq, "sequence is assigned on batch create, not import")
	assert.Empty(t, k.ID)
}

func TestImportIgnoresColumnOrder(t *testing.T) {
	r := workbook(t, [][]any{
		{"Email", "Họ & Tên", "extra column", "SĐT"},
		{"na@example.com", "Ngọc Anh", "ignored", "0912"},
	})

	kocs, err := Import(r)
	require.NoError(t, err)
	require.Len(t, kocs, 1)
	assert.Equal(t, "Ngọc Anh", kocs[0].Name)
	assert.Equal(t, "na@example.com", kocs[0].Email)
	assert.Equal(t, "0912", kocs[0].Phone)
}

func TestImportDropsRowsWithoutName(t *testing.T) {
	r := workbook(t, [][]any{
		{"Họ & Tên", "SĐT"},
		{"Ngọc Anh", "0911"},
		{"  ", "0912"},
		{"Minh", "0913"},
	})

	kocs, err := Import(r)
	require.NoError(t, err)
	require.Len(t, kocs, 2)
	assert.Equal(t, "Ngọc Anh", kocs[0].Name)
	assert.Equal(t, "Minh", kocs[1].Name)
}

func TestImportDefaultsUnknownEnumsAndBadNumbers(t *testing.T) {
	r := workbook(t, [][]any{
		{"Họ & Tên", "Nhãn phụ trách", "Loại KOC", "Follower", "Ngày hợp tác"},
		{"Ngọc Anh", "UnknownBrand", "UnknownTier", "not a number", "not a date"},
	})

	kocs, err := Import(r)
	require.NoError(t, err)
	require.Len(t, kocs, 1)

	k := kocs[0]
	assert.Equal(t, domain.BrandSachi, k.Brand)
	assert.Equal(t, domain.TierNano, k.Tier)
	assert.Zero(t, k.Followers)
	assert.Empty(t, k.CooperationDate, "unparseable date degrades to empty")
}

func TestImportExcelSerialDate(t *testing.T) {
	r := workbook(t, [][]any{
		{"Họ & Tên", "Ngày hợp tác"},
		{"Ngọc Anh", "45292"},
	})

	kocs, err := Import(r)
	require.NoError(t, err)
	require.Len(t, kocs, 1)
	assert.Equal(t, "2024-01-01", kocs[0].CooperationDate)
}

func TestImportRejectsMissingNameHeader(t *testing.T) {
	r := workbook(t, [][]any{
		{"SĐT", "Email"},
		{"0912", "na@example.com"},
	})

	_, err := Import(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestImportRejectsGarbageBytes(t *testing.T) {
	_, err := Import(strings.NewReader("this is not a zip archive"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestExportLayout(t *testing.T) {
	f, err := Export([]domain.KOC{{
		Seq:             7,
		ID:              "KOC007",
		Name:            "Ngọc Anh",
		Brand:           domain.BrandChilly,
		CooperationDate: "2024-03-15",
	}})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("KOCs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])

	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "KOC007", rows[1][1])
	assert.Equal(t, "Ngọc Anh", rows[1][2])
	assert.Equal(t, "15/03/2024", rows[1][15], "dates render in display form")
}

func TestExportImportRoundTrip(t *testing.T) {
	in := []domain.KOC{
		{Seq: 1, ID: "KOC001", Name: "Ngọc Anh", Phone: "0911", Brand: domain.BrandSachi, Tier: domain.TierMacro, Followers: 5000, CooperationDate: "2024-01-02", Revenue3M: 100},
		{Seq: 2, ID: "KOC002", Name: "Minh", Phone: "0912", Brand: domain.BrandKan, Tier: domain.TierNano, CooperationDate: "2023-11-30"},
	}

	f, err := Export(in)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	out, err := Import(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, out, 2)

	for i := range out {
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.Equal(t, in[i].Phone, out[i].Phone)
		assert.Equal(t, in[i].Brand, out[i].Brand)
		assert.Equal(t, in[i].Tier, out[i].Tier)
		assert.Equal(t, in[i].Followers, out[i].Followers)
		assert.Equal(t, in[i].CooperationDate, out[i].CooperationDate)
		assert.Equal(t, in[i].Revenue3M, out[i].Revenue3M)
	}
}
