package usecase

import (
	"context"
	"errors"
	"strconv"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/notify"
	repo "sneakerhub/internal/repository"
)

// AdminOrderUsecase は管理者向けの注文操作（全件一覧・ステータス更新）
type AdminOrderUsecase struct {
	orders *OrderUsecase
}

func NewAdminOrderUsecase(orders *OrderUsecase) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders}
}

type AdminOrderListInput struct {
	AccountID *int64
	Status    string
	Offset    int
	Limit     int
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (ListOrdersOutput, error) {
	f := repo.OrderListFilter{AccountID: in.AccountID, Offset: in.Offset, Limit: in.Limit}
	if in.Status != "" {
		st, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return ListOrdersOutput{}, apperr.InvalidValue("status", "unknown status")
		}
		f.Status = &st
	}
	return u.orders.list(ctx, f)
}

// UpdateStatus は1段ずつ進める（pending->processing->shipped->delivered）。
// cancelled はキャンセルの経路に回す
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor model.Account, orderID int64, status string) (model.Order, error) {
	next, ok := model.ParseOrderStatus(status)
	if !ok {
		return model.Order{}, apperr.InvalidValue("status", "unknown status")
	}
	if next == model.OrderStatusCancelled {
		return u.orders.CancelOrder(ctx, actor, orderID)
	}

	var (
		out  model.Order
		prev model.OrderStatus
	)

	err := u.orders.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID, false)
		if err != nil {
			return lookupError("update order status", "order", err)
		}

		var from []model.OrderStatus
		for st, to := range model.OrderStatusTransitions {
			if to == next {
				from = append(from, st)
			}
		}
		if len(from) == 0 {
			return apperr.InvalidValue("status", "cannot move to "+string(next))
		}

		updated, err := r.Orders().TransitionStatus(ctx, orderID, from, next)
		if errors.Is(err, repo.ErrRejected) {
			return apperr.InvalidValue("status", "cannot move from "+string(o.Status)+" to "+string(next))
		}
		if err != nil {
			return lookupError("update order status", "order", err)
		}

		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actor.ID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
			map[string]any{"status": o.Status},
			map[string]any{"status": updated.Status},
			u.orders.clock.Now(),
		)); err != nil {
			return storeError("update order status audit", err, nil)
		}

		out = updated
		prev = o.Status
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.orders.notifier.Notify(ctx, notify.Event{
		Type: notify.EventOrderStatusChanged,
		Key:  strconv.FormatInt(out.AccountID, 10),
		Payload: notify.OrderStatusChangedPayload{
			OrderID:   out.ID,
			AccountID: out.AccountID,
			From:      string(prev),
			To:        string(out.Status),
		},
		OccurredAt: u.orders.clock.Now(),
	})
	return out, nil
}
