package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/notify"
	repo "sneakerhub/internal/repository"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type OrderLineInput struct {
	VariantID int64
	Quantity  int64
}

type PlaceOrderInput struct {
	Lines []OrderLineInput
}

type ListOrdersOutput struct {
	Items  []model.Order `json:"items"`
	Total  int64         `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

// OrderUsecase は注文の確定とキャンセル。
// 確定は「在庫引当・注文作成・残高付与」を1トランザクションで行う
type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	notifier notify.Notifier
	loyalty  decimal.Decimal // 付与率（%）
	clock    Clock
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	notifier notify.Notifier,
	loyaltyPercent decimal.Decimal,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, notifier: notifier, loyalty: loyaltyPercent, clock: clock}
}

// PlaceOrder は注文を確定する。どこかで失敗したら全部ロールバック（部分的な注文は残らない）
func (u *OrderUsecase) PlaceOrder(ctx context.Context, accountID int64, in PlaceOrderInput) (model.Order, error) {
	lines, err := mergeLines(in.Lines)
	if err != nil {
		return model.Order{}, err
	}

	var out model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ids := make([]int64, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.VariantID)
		}

		//1. まとめて取得（欠けていたら注文しない）
		variants, err := variantsByIDs(ctx, r.Variants(), ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.CatalogVariant, len(variants))
		for _, v := range variants {
			byID[v.ID] = v
		}

		//2-3. 価格を固定して合計
		items := make([]model.OrderLineItem, 0, len(lines))
		var total int64
		for _, l := range lines {
			v := byID[l.VariantID]
			if v.Model == nil {
				return errors.New("place order: variant loaded without model")
			}
			price := v.Model.Price

			sub, ok := mulInt64(price, l.Quantity)
			if !ok || total > math.MaxInt64-sub {
				return apperr.InvalidValue("total_amount", "too large")
			}
			total += sub

			items = append(items, model.OrderLineItem{
				VariantID:   l.VariantID,
				Quantity:    l.Quantity,
				PriceAtTime: price,
			})
		}
		award := loyaltyAward(total, u.loyalty)

		//4. 注文
		order := model.Order{
			AccountID:      accountID,
			Status:         model.OrderStatusPending,
			TotalAmount:    total,
			AwardedBalance: award,
			OrderDate:      u.clock.Now(),
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return storeError("create order", err, apperr.NotFound("account"))
		}

		//5. 明細
		created, err := r.OrderItems().CreateBulk(ctx, order.ID, items)
		if err != nil {
			return storeError("create order items", err, nil)
		}

		//6. 在庫を減らす（1行ずつ条件付きUPDATE）
		orderID := order.ID
		for _, it := range created {
			if _, err := applyStockDelta(ctx, r.Inventory(), it.VariantID, -it.Quantity); err != nil {
				return err
			}
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				VariantID: it.VariantID,
				OrderID:   &orderID,
				Delta:     -it.Quantity,
				Reason:    model.AdjustmentReasonCheckout,
			}); err != nil {
				return storeError("create adjustment", err, nil)
			}
		}

		//7. 残高付与
		if award > 0 {
			if _, err := adjustBalance(ctx, r.Accounts(), accountID, award); err != nil {
				return err
			}
		}

		order.Items = created
		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	//コミット後に通知（結果は待たない）
	u.notifier.Notify(ctx, notify.Event{
		Type:       notify.EventOrderPlaced,
		Key:        strconv.FormatInt(accountID, 10),
		Payload:    orderPlacedPayload(out),
		OccurredAt: out.OrderDate,
	})
	return out, nil
}

// CancelOrder は本人か管理者だけ。2回目は InvalidValue（二重の払い戻しはしない）
func (u *OrderUsecase) CancelOrder(ctx context.Context, actor model.Account, orderID int64) (model.Order, error) {
	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.cancelInTx(ctx, r, actor, orderID)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.notifier.Notify(ctx, notify.Event{
		Type: notify.EventOrderCancelled,
		Key:  strconv.FormatInt(out.AccountID, 10),
		Payload: notify.OrderCancelledPayload{
			OrderID:         out.ID,
			AccountID:       out.AccountID,
			ReversedBalance: out.AwardedBalance,
		},
		OccurredAt: u.clock.Now(),
	})
	return out, nil
}

func (u *OrderUsecase) cancelInTx(ctx context.Context, r repo.TxRepos, actor model.Account, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID, false)
	if err != nil {
		return model.Order{}, lookupError("cancel order", "order", err)
	}
	//他人の注文は存在しない扱い
	if o.AccountID != actor.ID && !actor.IsSuperuser {
		return model.Order{}, apperr.NotFound("order")
	}

	cancelled, err := r.Orders().TransitionStatus(ctx, orderID, model.CancellableOrderStatuses, model.OrderStatusCancelled)
	if errors.Is(err, repo.ErrRejected) {
		return model.Order{}, apperr.InvalidValue("status", "order cannot be cancelled in status "+string(o.Status))
	}
	if err != nil {
		return model.Order{}, lookupError("cancel order", "order", err)
	}

	//付与した分を戻す
	if cancelled.AwardedBalance > 0 {
		if _, err := adjustBalance(ctx, r.Accounts(), cancelled.AccountID, -cancelled.AwardedBalance); err != nil {
			return model.Order{}, err
		}
	}

	//在庫を戻す（確定時と同じく VariantID の昇順）
	actorID := actor.ID
	items := restockOrder(cancelled.Items)
	for _, it := range items {
		if _, err := applyStockDelta(ctx, r.Inventory(), it.VariantID, it.Quantity); err != nil {
			return model.Order{}, err
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			VariantID:      it.VariantID,
			ActorAccountID: &actorID,
			OrderID:        &cancelled.ID,
			Delta:          it.Quantity,
			Reason:         model.AdjustmentReasonCancel,
		}); err != nil {
			return model.Order{}, storeError("create adjustment", err, nil)
		}
	}

	//管理者が他人の注文を取り消したときは監査ログ
	if actor.ID != cancelled.AccountID {
		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actor.ID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
			map[string]any{"status": o.Status},
			map[string]any{"status": cancelled.Status},
			u.clock.Now(),
		)); err != nil {
			return model.Order{}, storeError("cancel order audit", err, nil)
		}
	}

	return cancelled, nil
}

// 明細込み。本人か管理者だけ
func (u *OrderUsecase) GetOrder(ctx context.Context, actor model.Account, orderID int64) (model.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID, true)
	if err != nil {
		return model.Order{}, lookupError("get order", "order", err)
	}
	if o.AccountID != actor.ID && !actor.IsSuperuser {
		return model.Order{}, apperr.NotFound("order")
	}
	return o, nil
}

// 自分の注文一覧（新しい順）
func (u *OrderUsecase) ListOrders(ctx context.Context, accountID int64, offset int, limit int) (ListOrdersOutput, error) {
	id := accountID
	return u.list(ctx, repo.OrderListFilter{AccountID: &id, Offset: offset, Limit: limit})
}

func (u *OrderUsecase) list(ctx context.Context, f repo.OrderListFilter) (ListOrdersOutput, error) {
	if f.Offset < 0 {
		return ListOrdersOutput{}, apperr.InvalidValue("offset", "must be >= 0")
	}
	if f.Limit == 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit < 1 || f.Limit > maxListLimit {
		return ListOrdersOutput{}, apperr.InvalidValue("limit", "must be between 1 and 100")
	}

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return ListOrdersOutput{}, storeError("list orders", err, nil)
	}
	return ListOrdersOutput{Items: orders, Total: total, Offset: f.Offset, Limit: f.Limit}, nil
}

// 同じバリアントは数量を足して1行にする。
// 行ロックの順番をそろえるため VariantID の昇順で返す
func mergeLines(lines []OrderLineInput) ([]OrderLineInput, error) {
	if len(lines) == 0 {
		return nil, apperr.InvalidValue("items", "at least one item is required")
	}

	merged := make([]OrderLineInput, 0, len(lines))
	index := map[int64]int{}
	for _, l := range lines {
		if l.VariantID <= 0 {
			return nil, apperr.InvalidValue("variant_id", "is required")
		}
		if l.Quantity <= 0 {
			return nil, apperr.InvalidValue("quantity", "must be > 0")
		}
		if i, ok := index[l.VariantID]; ok {
			if merged[i].Quantity > math.MaxInt64-l.Quantity {
				return nil, apperr.InvalidValue("quantity", "too large")
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.VariantID] = len(merged)
		merged = append(merged, l)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].VariantID < merged[j].VariantID })
	return merged, nil
}

func restockOrder(items []model.OrderLineItem) []model.OrderLineItem {
	out := append([]model.OrderLineItem(nil), items...)
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return out
}

// floor(total × pct / 100)
func loyaltyAward(total int64, pct decimal.Decimal) int64 {
	if total <= 0 || !pct.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(total).Mul(pct).Div(hundred).Floor().IntPart()
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || a < 0 || b < 0 {
		return 0, false
	}
	return c, true
}

func orderPlacedPayload(o model.Order) notify.OrderPlacedPayload {
	lines := make([]notify.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, notify.OrderLine{
			VariantID:   it.VariantID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
		})
	}
	return notify.OrderPlacedPayload{
		OrderID:        o.ID,
		AccountID:      o.AccountID,
		TotalAmount:    o.TotalAmount,
		AwardedBalance: o.AwardedBalance,
		Lines:          lines,
	}
}
