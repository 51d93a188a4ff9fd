package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/abelbrown/roundup/internal/catalog"
	"github.com/abelbrown/roundup/internal/envelope"
	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/filter"
	"github.com/abelbrown/roundup/internal/logging"
)

// Handler serves the API routes.
type Handler struct {
	agg     Aggregator
	catalog *catalog.Catalog
	opts    Options
}

// CategoryInfo is one entry of GET /api/categories.
type CategoryInfo struct {
	Name  string   `json:"name"`
	Label string   `json:"label"`
	Feeds []string `json:"feeds"`
}

// Feeds handles GET /api/feeds.
func (h *Handler) Feeds(c echo.Context) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, envelope.Message(err.Error()))
	}

	result, err := h.agg.Aggregate(c.Request().Context(), req)
	if err != nil {
		var invalid *catalog.InvalidCategoryError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, envelope.Invalid(invalid))
		}
		logging.Error("Aggregation failed", "category", req.Category, "error", err)
		return c.JSON(http.StatusInternalServerError, envelope.Message("aggregation failed"))
	}

	return c.JSON(http.StatusOK, envelope.Build(result))
}

func (h *Handler) parseRequest(c echo.Context) (feeds.Request, error) {
	req := feeds.Request{
		Category: c.QueryParam("category"),
		Keywords: filter.ParseKeywords(c.QueryParam("keywords")),
		Limit:    h.opts.DefaultLimit,
		SortBy:   feeds.ParseSortOrder(c.QueryParam("sortBy")),
	}
	if req.Category == "" {
		req.Category = h.opts.DefaultCategory
	}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, errors.New("limit must be a non-negative integer")
		}
		req.Limit = n
	}
	return req, nil
}

// Categories handles GET /api/categories.
func (h *Handler) Categories(c echo.Context) error {
	out := lo.Map(h.catalog.All(), func(cat catalog.Category, _ int) CategoryInfo {
		return CategoryInfo{Name: cat.Name, Label: cat.Label, Feeds: cat.Feeds}
	})
	return c.JSON(http.StatusOK, out)
}

// Health handles GET /healthz.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
