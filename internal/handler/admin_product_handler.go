package handler

import (
	"net/http"

	"sneakerhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ModelCreateRequest は商品モデルの作成
type ModelCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Brand       string `json:"brand" validate:"required,max=100"`
	Type        string `json:"type" validate:"required,max=100"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
}

// 入っている項目だけ更新する
type ModelUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Brand       *string `json:"brand" validate:"omitempty,max=100"`
	Type        *string `json:"type" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
}

type VariantCreateRequest struct {
	ModelID  int64   `json:"model_id" validate:"required,gt=0"`
	Size     float64 `json:"size" validate:"required,gt=0"`
	Quantity int64   `json:"quantity" validate:"gte=0"`
}

// QuantityAdjustRequest は在庫の差分更新
type QuantityAdjustRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// /models と /variants の管理者API
type AdminProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(api *echo.Group, g Guards) {
	api.POST("/models", h.createModel, g.Auth, g.Admin)
	api.PATCH("/models/:id", h.updateModel, g.Auth, g.Admin)
	api.DELETE("/models/:id", h.deleteModel, g.Auth, g.Admin)

	api.POST("/variants", h.createVariant, g.Auth, g.Admin)
	api.PATCH("/variants/:id/quantity", h.adjustQuantity, g.Auth, g.Admin)
	api.DELETE("/variants/:id", h.deleteVariant, g.Auth, g.Admin)
	api.GET("/variants/:id/adjustments", h.listAdjustments, g.Auth, g.Admin)
}

func (h *AdminProductHandler) createModel(c echo.Context) error {
	var req ModelCreateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	m, err := h.uc.CreateModel(c.Request().Context(), usecase.CreateModelInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *AdminProductHandler) updateModel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ModelUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	m, err := h.uc.UpdateModel(c.Request().Context(), id, usecase.UpdateModelInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *AdminProductHandler) deleteModel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteModel(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) createVariant(c echo.Context) error {
	var req VariantCreateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	v, err := h.uc.CreateVariant(c.Request().Context(), usecase.CreateVariantInput{
		ModelID:  req.ModelID,
		Size:     req.Size,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *AdminProductHandler) adjustQuantity(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req QuantityAdjustRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	v, err := h.uc.AdjustVariantQuantity(c.Request().Context(), p.ID, id, req.Delta, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *AdminProductHandler) deleteVariant(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteVariant(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) listAdjustments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return err
	}

	adjs, err := h.uc.ListAdjustments(c.Request().Context(), id, offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adjs)
}
