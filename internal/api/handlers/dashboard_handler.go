// internal/api/handlers/dashboard_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
	"github.com/botuai88-lab/Sohaco-KOC/internal/service"
)

type DashboardHandler struct {
	kocService *service.KOCService
}

func NewDashboardHandler(kocService *service.KOCService) *DashboardHandler {
	return &DashboardHandler{kocService: kocService}
}

// GetSummary returns the stat cards, histograms and trend for an
// optional date range (start/end, canonical yyyy-mm-dd).
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.kocService.DashboardSummary(c.Request.Context(), parseDateRange(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetLeaderboards returns the two brand-scoped top-N views. Each
// board's brand is selectable independently; both default to the
// first brand.
func (h *DashboardHandler) GetLeaderboards(c *gin.Context) {
	monthly := parseBrand(c.Query("monthly_brand"))
	quarterly := parseBrand(c.Query("quarterly_brand"))

	boards, err := h.kocService.Leaderboards(c.Request.Context(), parseDateRange(c), monthly, quarterly, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func parseDateRange(c *gin.Context) domain.DateRange {
	return domain.DateRange{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}
}

func parseBrand(raw string) domain.Brand {
	if raw == "" {
		return domain.Brands[0]
	}
	return domain.ParseBrand(raw)
}
