// Package api exposes the content catalog, SEO metadata, and the peripheral
// assistant surfaces over a versioned JSON API.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicflow/content-service/internal/auth"
	"github.com/clinicflow/content-service/internal/filter"
	"github.com/clinicflow/content-service/internal/history"
	"github.com/clinicflow/content-service/internal/logger"
	"github.com/clinicflow/content-service/internal/markdown"
	"github.com/clinicflow/content-service/internal/metrics"
	"github.com/clinicflow/content-service/internal/profile"
	"github.com/clinicflow/content-service/internal/research"
	"github.com/clinicflow/content-service/internal/resolver"
	"github.com/clinicflow/content-service/internal/seo"
	"github.com/clinicflow/content-service/internal/store"
)

// relatedLimit is how many related records a detail page carries.
const relatedLimit = 3

// Handler holds the HTTP request handlers and their dependencies.
type Handler struct {
	store    *store.Store
	resolver *resolver.Resolver
	seo      *seo.Generator
	baseURL  string
	source   research.Source
	profiles profile.Repository
	history  history.Repository
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewHandler creates a handler instance.
func NewHandler(
	s *store.Store,
	r *resolver.Resolver,
	gen *seo.Generator,
	baseURL string,
	source research.Source,
	profiles profile.Repository,
	hist history.Repository,
	m *metrics.Metrics,
	log logger.Logger,
) *Handler {
	return &Handler{
		store:    s,
		resolver: r,
		seo:      gen,
		baseURL:  baseURL,
		source:   source,
		profiles: profiles,
		history:  hist,
		metrics:  m,
		logger:   log,
	}
}

func (h *Handler) collection(c *gin.Context) (store.Collection, bool) {
	collection := store.Collection(c.Param("collection"))
	if !h.store.Has(collection) {
		h.notFound(c, "unknown collection")
		return "", false
	}
	return collection, true
}

func (h *Handler) notFound(c *gin.Context, msg string) {
	h.metrics.PageNotFoundTotal.WithLabelValues(c.Param("collection")).Inc()
	fallback := h.seo.NotFound()
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:     msg,
		Code:      "NOT_FOUND",
		Timestamp: time.Now(),
		Metadata:  &fallback,
	})
}

// ListCollection handles listing requests with optional category and search
// filters. An empty result is a valid 200 response flagged no_results, never
// an error.
func (h *Handler) ListCollection(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}

	state := filter.State{
		Category: c.DefaultQuery("category", filter.AllCategories),
		Term:     c.Query("q"),
	}

	records := h.store.All(collection)
	visible := filter.Apply(records, state)
	if len(visible) == 0 {
		h.metrics.EmptyResultTotal.WithLabelValues(string(collection)).Inc()
	}

	c.JSON(http.StatusOK, ListResponse{
		Collection: string(collection),
		Filter:     state,
		Total:      len(visible),
		NoResults:  len(visible) == 0,
		Categories: h.resolver.Categories(collection),
		Records:    summarizeAll(visible),
	})
}

// GetRecord handles detail page requests: resolved record, metadata bundle,
// rendered body, and related records.
func (h *Handler) GetRecord(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}

	rec, err := h.resolver.Resolve(collection, c.Param("key"))
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			h.notFound(c, "page does not exist")
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     err.Error(),
			Code:      "RESOLVE_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	resp := DetailResponse{
		Collection: string(collection),
		Record:     rec,
		Metadata:   h.seo.ForRecord(collection, rec),
		Related:    summarizeAll(filter.RelatedTo(rec, h.store.All(collection), relatedLimit)),
	}
	if rec.Body != "" {
		blocks := markdown.Render(rec.Body)
		resp.BodyBlocks = blocks
		resp.BodyHTML = markdown.HTML(blocks)
	}

	c.JSON(http.StatusOK, resp)
}

// GetCategory handles category listing pages resolved from a slug.
func (h *Handler) GetCategory(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}

	slug := c.Param("slug")
	records, err := h.resolver.ResolveCategory(collection, slug)
	if err != nil {
		h.notFound(c, "category page does not exist")
		return
	}

	// All matched records share the category label by construction.
	label := records[0].Category

	c.JSON(http.StatusOK, CategoryResponse{
		Collection: string(collection),
		Category:   resolver.CategoryRef{Label: label, Slug: slug},
		Metadata:   h.seo.ForCategory(collection, label, slug, len(records)),
		Records:    summarizeAll(records),
	})
}

// ListKeys enumerates every valid route parameter for static generation.
func (h *Handler) ListKeys(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, KeysResponse{
		Collection: string(collection),
		Keys:       h.resolver.Params(collection),
	})
}

// ListCategories lists a collection's categories with their route slugs.
func (h *Handler) ListCategories(c *gin.Context) {
	collection, ok := h.collection(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, CategoriesResponse{
		Collection: string(collection),
		Categories: h.resolver.Categories(collection),
	})
}

// Sitemap enumerates every static route across all collections.
func (h *Handler) Sitemap(c *gin.Context) {
	c.JSON(http.StatusOK, SitemapResponse{
		BaseURL: h.baseURL,
		Routes:  h.resolver.Sitemap(),
	})
}

// Research proxies an assistant query to the evidence source. The source
// contains its own failures; this handler never surfaces a raw error.
func (h *Handler) Research(c *gin.Context) {
	var req research.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return
	}

	resp, err := h.source.Query(c.Request.Context(), req)
	if err != nil {
		// Sources are expected to degrade internally; treat a returned
		// error the same way.
		h.logger.Error("Evidence source returned error", logger.Error(err))
		resp = research.FallbackResponse()
	}
	if resp.Fallback {
		h.metrics.ResearchFallbacks.Inc()
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the authenticated user's profile, creating defaults on
// first access.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := auth.UserID(c)

	p, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Profile fetch failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "profile unavailable",
			Code:      "PROFILE_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

// PutProfile replaces the authenticated user's profile.
func (h *Handler) PutProfile(c *gin.Context) {
	userID := auth.UserID(c)

	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return
	}

	if err := h.profiles.Put(c.Request.Context(), userID, p); err != nil {
		h.logger.Error("Profile store failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "profile unavailable",
			Code:      "PROFILE_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

// PatchProfile applies a partial update to the authenticated user's profile.
func (h *Handler) PatchProfile(c *gin.Context) {
	userID := auth.UserID(c)

	var u profile.Update
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), userID, u)
	if err != nil {
		h.logger.Error("Profile update failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "profile unavailable",
			Code:      "PROFILE_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SaveConsultation stores a consultation for the authenticated user.
func (h *Handler) SaveConsultation(c *gin.Context) {
	userID := auth.UserID(c)

	var req history.ConsultationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return
	}

	consultation, err := h.history.SaveConsultation(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("Consultation save failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "history unavailable",
			Code:      "HISTORY_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusCreated, consultation)
}

// ListConsultations returns the authenticated user's saved consultations.
func (h *Handler) ListConsultations(c *gin.Context) {
	userID := auth.UserID(c)
	limit := parseLimit(c)

	consultations, err := h.history.ListConsultations(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Consultation list failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "history unavailable",
			Code:      "HISTORY_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

// RecordSearch appends a term to the authenticated user's search history.
func (h *Handler) RecordSearch(c *gin.Context) {
	userID := auth.UserID(c)

	var req struct {
		Term string `json:"term" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return
	}

	if err := h.history.RecordSearch(c.Request.Context(), userID, req.Term); err != nil {
		h.logger.Error("Search record failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "history unavailable",
			Code:      "HISTORY_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

// ListSearches returns the authenticated user's search history.
func (h *Handler) ListSearches(c *gin.Context) {
	userID := auth.UserID(c)
	limit := parseLimit(c)

	entries, err := h.history.ListSearches(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Search history list failed", logger.Error(err), logger.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "history unavailable",
			Code:      "HISTORY_ERROR",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"searches": entries})
}

func parseLimit(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			return limit
		}
	}
	return 0
}
