package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
)

// CatalogHandler serves the cached menu
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List returns the menu grid for the given category, veg and search filters
// @Summary Menu
// @Tags catalog
// @Security BearerAuth
// @Param category query string false "category name, all or __favs__"
// @Param veg query string false "all, veg or nonveg"
// @Param search query string false "name contains"
// @Success 200 {object} response.APIResponse
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var filter service.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	ctx := c.Request.Context()
	items, err := h.catalogService.Filter(ctx, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	favourites, err := h.catalogService.Favourites(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot := h.catalogService.Snapshot()
	response.OK(c, "Menu retrieved successfully", gin.H{
		"items":      items,
		"categories": snapshot.Categories,
		"favourites": favourites,
		"loaded_at":  snapshot.LoadedAt,
	})
}

// Refresh reloads the menu from the backend. On failure the previous menu
// stays in service.
// @Summary Refresh menu
// @Tags catalog
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *gin.Context) {
	snapshot, err := h.catalogService.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu refreshed", snapshot)
}

// Favourites lists the favourite item ids
// @Summary Favourites
// @Tags catalog
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /catalog/favourites [get]
func (h *CatalogHandler) Favourites(c *gin.Context) {
	ids, err := h.catalogService.Favourites(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Favourites retrieved successfully", gin.H{"favourites": ids})
}

// ToggleFavourite adds the item to favourites or removes it
// @Summary Toggle favourite
// @Tags catalog
// @Security BearerAuth
// @Param id path string true "menu item id"
// @Success 200 {object} response.APIResponse
// @Router /catalog/favourites/{id} [post]
func (h *CatalogHandler) ToggleFavourite(c *gin.Context) {
	ids, err := h.catalogService.ToggleFavourite(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Favourites updated", gin.H{"favourites": ids})
}
