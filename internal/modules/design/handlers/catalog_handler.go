package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
)

// CatalogHandler serves the closed style/pricing tables.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListCategories godoc
// @Summary List garment categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} map[string]string
// @Router /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories := catalog.AllCategories()
	out := make([]fiber.Map, 0, len(categories))
	for _, cat := range categories {
		out = append(out, fiber.Map{
			"key":    cat,
			"name":   cat.Display(),
			"styles": len(catalog.StylesFor(cat)),
		})
	}
	return c.JSON(out)
}

// ListStyles godoc
// @Summary List styles offered for a garment category, priced for it
// @Tags Catalog
// @Produce json
// @Param category path string true "Garment category"
// @Success 200 {array} catalog.SampleDesign
// @Failure 400 {object} map[string]string
// @Router /catalog/{category}/styles [get]
func (h *CatalogHandler) ListStyles(c *fiber.Ctx) error {
	category, err := catalog.ParseCategory(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(catalog.StylesFor(category))
}

// PricingTable godoc
// @Summary Full style x garment price matrix
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.PricingEntry
// @Router /catalog/pricing [get]
func (h *CatalogHandler) PricingTable(c *fiber.Ctx) error {
	return c.JSON(catalog.PricingTable())
}
