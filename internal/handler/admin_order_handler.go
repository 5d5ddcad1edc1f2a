package handler

import (
	"net/http"
	"time"

	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"
	"sneakerhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc    *usecase.AdminOrderUsecase
	audit *usecase.AuditLogUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, audit *usecase.AuditLogUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, audit: audit}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

func (h *AdminOrderHandler) RegisterRoutes(api *echo.Group, g Guards) {
	api.GET("/orders/all", h.list, g.Auth, g.Admin)
	api.PATCH("/orders/:id/status", h.updateStatus, g.Auth, g.Admin)
	api.GET("/audit-logs", h.auditLogs, g.Auth, g.Admin)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	accountID, err := queryInt64Ptr(c, "account_id")
	if err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AdminOrderListInput{
		AccountID: accountID,
		Status:    c.QueryParam("status"),
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req OrderStatusUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	var f repo.AuditLogFilter

	var err error
	if f.Offset, err = queryInt(c, "offset", 0); err != nil {
		return err
	}
	if f.Limit, err = queryInt(c, "limit", 0); err != nil {
		return err
	}
	if f.ActorAccountID, err = queryInt64Ptr(c, "actor_account_id"); err != nil {
		return err
	}
	if f.ResourceID, err = queryInt64Ptr(c, "resource_id"); err != nil {
		return err
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if f.CreatedFrom, err = queryTime(c, "from"); err != nil {
		return err
	}
	if f.CreatedTo, err = queryTime(c, "to"); err != nil {
		return err
	}

	out, err := h.audit.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// 期間はRFC3339
func queryTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &t, nil
}
