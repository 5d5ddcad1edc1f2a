package handler

import (
	"net/http"
	"strconv"

	"sneakerhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /models と /variants の公開API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/models", h.list)
	api.GET("/models/:id", h.detail)
	api.GET("/variants/:id", h.variant)
}

func (h *ProductHandler) list(c echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	minPrice, err := queryInt64Ptr(c, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := queryInt64Ptr(c, "max_price")
	if err != nil {
		return err
	}
	inStock, err := queryBoolPtr(c, "in_stock")
	if err != nil {
		return err
	}
	sizes, err := queryFloats(c, "sizes", "size")
	if err != nil {
		return err
	}
	includeVariants, _ := strconv.ParseBool(c.QueryParam("include_variants"))

	out, err := h.uc.ListModels(c.Request().Context(), usecase.ListModelsInput{
		Name:            c.QueryParam("name"),
		Brand:           c.QueryParam("brand"),
		Type:            c.QueryParam("type"),
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		Sizes:           sizes,
		Search:          c.QueryParam("search"),
		InStock:         inStock,
		IncludeVariants: includeVariants,
		Sort:            c.QueryParam("sort"),
		Offset:          offset,
		Limit:           limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	//既定はバリアント込み
	includeVariants := true
	if v := c.QueryParam("include_variants"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest("invalid include_variants")
		}
		includeVariants = b
	}

	m, err := h.uc.GetModel(c.Request().Context(), id, includeVariants)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, m)
}

func (h *ProductHandler) variant(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	v, err := h.uc.GetVariant(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}
