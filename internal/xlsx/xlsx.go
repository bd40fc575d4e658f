// internal/xlsx/xlsx.go
// Package xlsx adapts collaboration records to and from Excel
// workbooks. Import locates fields by exact header label so column
// order in the uploaded file does not matter; export always emits the
// fixed display layout.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/botuai88-lab/Sohaco-KOC/internal/dates"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
)

// Header labels, exact and case-sensitive. These are the labels the
// export writes and the import looks up; they match the deployed
// sheet.
const (
	headerSeq         = "STT"
	headerID          = "Mã KOC"
	headerName        = "Họ & Tên"
	headerGender      = "Giới Tính"
	headerBirthYear   = "Năm Sinh"
	headerTaxCode     = "Mã Số Thuế"
	headerPhone       = "SĐT"
	headerEmail       = "Email"
	headerProvince    = "Địa chỉ (Tỉnh/TP)"
	headerUnitPrice   = "Đơn Giá"
	headerMainField   = "Lĩnh vực chính"
	headerProfileLink = "Link profile"
	headerFollowers   = "Follower"
	headerBrand       = "Nhãn phụ trách"
	headerEngagement  = "Tỷ lệ tương tác (%)"
	headerCoopDate    = "Ngày hợp tác"
	headerAvgViews    = "Lượt view trung bình"
	headerPostedLink  = "Nội dung đã đăng (link)"
	headerRevenue1M   = "Doanh số sau 1m"
	headerRevenue3M   = "Doanh số sau 3m"
	headerVoice       = "Voice"
	headerProgress    = "Tiến độ"
	headerTier        = "Loại KOC"
	headerPotential   = "Tiềm năng phát triển"
	headerNotes       = "Ghi chú"
)

var exportHeaders = []string{
	headerSeq, headerID, headerName, headerGender, headerBirthYear,
	headerTaxCode, headerPhone, headerEmail, headerProvince,
	headerUnitPrice, headerMainField, headerProfileLink,
	headerFollowers, headerBrand, headerEngagement, headerCoopDate,
	headerAvgViews, headerPostedLink, headerRevenue1M, headerRevenue3M,
	headerVoice, headerProgress, headerTier, headerPotential,
	headerNotes,
}

// ErrMalformedFile marks a workbook the importer cannot use at all:
// no sheets, or a first row missing the name header. A malformed file
// aborts the whole import; malformed cells inside an otherwise valid
// file only degrade to defaults.
var ErrMalformedFile = errors.New("workbook is not a KOC import file")

// Import reads the first sheet of a workbook and maps its data rows
// to records. Rows whose name cell is empty are dropped. The returned
// records carry no sequence, identifier or storage position; those
// are assigned by the gateway on batch create.
func Import(r io.Reader) ([]domain.KOC, error) {
	jobID := uuid.NewString()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrMalformedFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrMalformedFile)
	}

	cols := headerIndex(rows[0])
	if _, ok := cols[headerName]; !ok {
		return nil, fmt.Errorf("%w: header %q not found", ErrMalformedFile, headerName)
	}

	kocs := make([]domain.KOC, 0, len(rows)-1)
	for i, row := range rows[1:] {
		name := strings.TrimSpace(lookup(row, cols, headerName))
		if name == "" {
			continue
		}
		k := domain.KOC{
			Name:              name,
			Gender:            domain.ParseGender(lookup(row, cols, headerGender)),
			BirthYear:         parseInt(lookup(row, cols, headerBirthYear)),
			TaxCode:           strings.TrimSpace(lookup(row, cols, headerTaxCode)),
			Phone:             strings.TrimSpace(lookup(row, cols, headerPhone)),
			Email:             strings.TrimSpace(lookup(row, cols, headerEmail)),
			Province:          strings.TrimSpace(lookup(row, cols, headerProvince)),
			UnitPrice:         parseFloat(lookup(row, cols, headerUnitPrice)),
			MainField:         strings.TrimSpace(lookup(row, cols, headerMainField)),
			ProfileLink:       strings.TrimSpace(lookup(row, cols, headerProfileLink)),
			Followers:         parseInt(lookup(row, cols, headerFollowers)),
			Brand:             domain.ParseBrand(lookup(row, cols, headerBrand)),
			EngagementRate:    parseFloat(lookup(row, cols, headerEngagement)),
			CooperationDate:   parseDateCell(lookup(row, cols, headerCoopDate)),
			AvgViews:          parseInt(lookup(row, cols, headerAvgViews)),
			PostedContentLink: strings.TrimSpace(lookup(row, cols, headerPostedLink)),
			Revenue1M:         parseFloat(lookup(row, cols, headerRevenue1M)),
			Revenue3M:         parseFloat(lookup(row, cols, headerRevenue3M)),
			Voice:             strings.TrimSpace(lookup(row, cols, headerVoice)),
			Progress:          strings.TrimSpace(lookup(row, cols, headerProgress)),
			Tier:              domain.ParseTier(lookup(row, cols, headerTier)),
			Potential:         strings.TrimSpace(lookup(row, cols, headerPotential)),
			Notes:             strings.TrimSpace(lookup(row, cols, headerNotes)),
		}
		if k.CooperationDate == "" && strings.TrimSpace(lookup(row, cols, headerCoopDate)) != "" {
			log.Warn().Str("job", jobID).Int("row", i+2).Msg("unparseable cooperation date, imported empty")
		}
		kocs = append(kocs, k)
	}

	log.Info().Str("job", jobID).Int("rows", len(kocs)).Msg("workbook parsed")
	return kocs, nil
}

// Export builds a workbook with the fixed display columns. Dates are
// rendered dd/mm/yyyy. The caller owns the returned file.
func Export(kocs []domain.KOC) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheetName = "KOCs"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	if err := f.SetSheetRow(sheetName, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, k := range kocs {
		row := []any{
			k.Seq, k.ID, k.Name, string(k.Gender), k.BirthYear,
			k.TaxCode, k.Phone, k.Email, k.Province,
			k.UnitPrice, k.MainField, k.ProfileLink,
			k.Followers, string(k.Brand), k.EngagementRate,
			dates.ToDisplay(k.CooperationDate),
			k.AvgViews, k.PostedContentLink, k.Revenue1M, k.Revenue3M,
			k.Voice, k.Progress, string(k.Tier), k.Potential, k.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		label := strings.TrimSpace(h)
		if label == "" {
			continue
		}
		if _, dup := cols[label]; !dup {
			cols[label] = i
		}
	}
	return cols
}

func lookup(row []string, cols map[string]int, label string) string {
	idx, ok := cols[label]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseInt(s string) int {
	return int(parseFloat(s))
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseDateCell handles the three shapes a date cell arrives in:
// display strings, canonical strings and raw Excel serials (date
// cells in unformatted workbooks).
func parseDateCell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 80000 {
		return dates.ToCanonical(serial)
	}
	return dates.ToCanonical(s)
}
