// internal/api/handlers/koc_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/botuai88-lab/Sohaco-KOC/internal/config"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
	"github.com/botuai88-lab/Sohaco-KOC/internal/listing"
	"github.com/botuai88-lab/Sohaco-KOC/internal/service"
	"github.com/botuai88-lab/Sohaco-KOC/internal/sheet"
	"github.com/botuai88-lab/Sohaco-KOC/internal/xlsx"
)

type KOCHandler struct {
	kocService *service.KOCService
}

func NewKOCHandler(kocService *service.KOCService) *KOCHandler {
	return &KOCHandler{kocService: kocService}
}

// List returns one page of the grouped management view.
func (h *KOCHandler) List(c *gin.Context) {
	filter := listing.Filter{
		Search:    strings.TrimSpace(c.Query("q")),
		Province:  strings.TrimSpace(c.Query("province")),
		MainField: strings.TrimSpace(c.Query("main_field")),
	}
	for _, b := range splitParam(c.Query("brands")) {
		filter.Brands = append(filter.Brands, domain.Brand(b))
	}
	for _, t := range splitParam(c.Query("tiers")) {
		filter.Tiers = append(filter.Tiers, domain.KOCTier(t))
	}
	if v, err := strconv.Atoi(c.Query("followers_min")); err == nil {
		filter.FollowersMin = &v
	}
	if v, err := strconv.Atoi(c.Query("followers_max")); err == nil {
		filter.FollowersMax = &v
	}

	srt := listing.Sort{
		Key:        strings.TrimSpace(c.Query("sort")),
		Descending: c.Query("order") == "desc",
	}
	page := parsePositiveIntWithDefault(c.Query("page"), 1)

	result, err := h.kocService.List(c.Request.Context(), filter, srt, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create appends one collaboration.
func (h *KOCHandler) Create(c *gin.Context) {
	var input domain.KOC
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.kocService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update rewrites the collaboration at the given storage position.
func (h *KOCHandler) Update(c *gin.Context) {
	rowID, err := strconv.Atoi(c.Param("rowId"))
	if err != nil || rowID < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rowId"})
		return
	}

	var input domain.KOC
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input.RowID = rowID

	updated, err := h.kocService.Update(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

type deleteRequest struct {
	RowIDs []int `json:"rowIds" binding:"required"`
}

// Delete removes the collaborations at the given storage positions.
func (h *KOCHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.RowIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rowIds is required"})
		return
	}

	if err := h.kocService.Delete(c.Request.Context(), req.RowIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": len(req.RowIDs)})
}

// Refresh re-fetches the collection from the sheet.
func (h *KOCHandler) Refresh(c *gin.Context) {
	if err := h.kocService.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// Import accepts an uploaded workbook and batch-creates its rows. A
// copy of the upload is archived so failed imports can be replayed.
func (h *KOCHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if dir := config.Load().App.UploadDir; dir != "" {
		dst := filepath.Join(dir, time.Now().Format("20060102T150405")+"_"+filepath.Base(fileHeader.Filename))
		if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
			log.Warn().Err(err).Str("file", dst).Msg("could not archive uploaded workbook")
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()

	kocs, err := xlsx.Import(f)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(kocs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workbook has no importable rows"})
		return
	}

	created, err := h.kocService.Import(c.Request.Context(), kocs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": len(created), "records": created})
}

// Export streams the full collection as a workbook.
func (h *KOCHandler) Export(c *gin.Context) {
	records, err := h.kocService.Records(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	wb, err := xlsx.Export(records)
	if err != nil {
		respondError(c, err)
		return
	}
	defer wb.Close()

	filename := fmt.Sprintf("danh_sach_koc_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to stream export")
	}
}

func splitParam(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// respondError maps the error taxonomy onto status codes: validation
// 422, malformed import 400, missing configuration 503, gateway
// transport/application failures 502, anything else 500.
func respondError(c *gin.Context, err error) {
	var fieldErrs domain.FieldErrors
	var transportErr *sheet.TransportError
	var appErr *sheet.AppError

	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fieldErrs})
	case errors.Is(err, xlsx.ErrMalformedFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, config.ErrScriptURLNotSet):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sheet endpoint is not configured"})
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": transportErr.Error()})
	case errors.As(err, &appErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": appErr.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
