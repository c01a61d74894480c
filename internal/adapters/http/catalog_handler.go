package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/disciplineos/core/internal/domain/catalog"
)

// CatalogHandler serves the static task catalog
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// List returns every task definition.
func (h *CatalogHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.All())
}

// Get returns a single task definition.
func (h *CatalogHandler) Get(c echo.Context) error {
	def, ok := catalog.ByID(c.Param("taskID"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown task")
	}
	return c.JSON(http.StatusOK, def)
}

// Grouped returns the catalog keyed by category.
func (h *CatalogHandler) Grouped(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.GroupedByCategory())
}
