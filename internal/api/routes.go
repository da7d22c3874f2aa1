package api

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicflow/content-service/internal/auth"
	"github.com/clinicflow/content-service/internal/metrics"
)

// RegisterRoutes mounts the versioned API on the router. Account routes
// require a bearer token; everything else is public.
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	router.Use(h.metrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/sitemap", h.Sitemap)
		v1.POST("/research", h.Research)

		content := v1.Group("/content/:collection")
		{
			content.GET("", h.ListCollection)
			content.GET("/keys", h.ListKeys)
			content.GET("/categories", h.ListCategories)
			content.GET("/category/:slug", h.GetCategory)
			content.GET("/:key", h.GetRecord)
		}

		account := v1.Group("")
		account.Use(auth.Middleware(jwtSecret))
		{
			account.GET("/profile", h.GetProfile)
			account.PUT("/profile", h.PutProfile)
			account.PATCH("/profile", h.PatchProfile)

			account.GET("/consultations", h.ListConsultations)
			account.POST("/consultations", h.SaveConsultation)

			account.GET("/search-history", h.ListSearches)
			account.POST("/search-history", h.RecordSearch)
		}
	}
}
