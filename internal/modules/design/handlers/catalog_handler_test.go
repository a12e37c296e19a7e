package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
)

func newCatalogApp() *fiber.App {
	app := fiber.New()
	h := NewCatalogHandler()
	app.Get("/catalog/categories", h.ListCategories)
	app.Get("/catalog/pricing", h.PricingTable)
	app.Get("/catalog/:category/styles", h.ListStyles)
	return app
}

func TestListCategories(t *testing.T) {
	app := newCatalogApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/catalog/categories", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 6)
	assert.Equal(t, "jacket", body[0]["key"])
	assert.Equal(t, "Jacket", body[0]["name"])
}

func TestListStylesForGarment(t *testing.T) {
	app := newCatalogApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/catalog/vest/styles", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var styles []catalog.SampleDesign
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&styles))
	require.Len(t, styles, 7)
	for _, s := range styles {
		assert.NotEqual(t, catalog.StyleCoutureJewels, s.Key)
		assert.Positive(t, s.Price)
	}
}

func TestListStylesUnknownGarment(t *testing.T) {
	app := newCatalogApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/catalog/kimono/styles", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "unknown garment category")
}

func TestPricingTableEndpoint(t *testing.T) {
	app := newCatalogApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/catalog/pricing", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []catalog.PricingEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Len(t, entries, 9*6)
}
