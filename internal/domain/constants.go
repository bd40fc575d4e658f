// internal/domain/constants.go
package domain

// Brands is the fixed set of brands, in display order.
var Brands = []Brand{BrandSachi, BrandChilly, BrandFysoline, BrandProspan, BrandKan}

// Tiers is the fixed set of KOC tiers, smallest audience first.
var Tiers = []KOCTier{TierNano, TierMicro, TierMacro, TierMega}

// Provinces is the fixed province/city list offered by the form and
// accepted by the province filter.
var Provinces = []string{
	"Hà Nội",
	"TP. Hồ Chí Minh",
	"Đà Nẵng",
	"Hải Phòng",
	"Cần Thơ",
	"An Giang",
	"Bắc Giang",
	"Bắc Ninh",
	"Bình Dương",
	"Bình Định",
	"Đắk Lắk",
	"Đồng Nai",
	"Hà Tĩnh",
	"Hưng Yên",
	"Khánh Hòa",
	"Lâm Đồng",
	"Nam Định",
	"Nghệ An",
	"Quảng Ninh",
	"Thái Bình",
	"Thanh Hóa",
	"Thừa Thiên Huế",
	"Vĩnh Phúc",
	"Khác",
}

// MainFields is the fixed list of content verticals.
var MainFields = []string{
	"Mẹ & Bé",
	"Làm đẹp",
	"Sức khỏe",
	"Ẩm thực",
	"Thời trang",
	"Gia đình",
	"Du lịch",
	"Khác",
}
