package notify

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventEmailVerification  = "email.verification"
	EventEmailPasswordReset = "email.password_reset"
	EventOrderPlaced        = "order.placed"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// Event はユースケースが投げる通知。配送は非同期で、呼び出し側は結果を待たない。
type Event struct {
	Type       string
	Key        string // 同じキーは同じパーティションに入る
	Payload    any
	OccurredAt time.Time
}

type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Envelope は外に出すときの形
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Key          string          `json:"key,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// ---- Payload ----

// メール送信依頼（実際の送信は購読側）
type EmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
	Subject  string `json:"subject"`
	Link     string `json:"link"`
}

type OrderLine struct {
	VariantID   int64 `json:"variant_id"`
	Quantity    int64 `json:"quantity"`
	PriceAtTime int64 `json:"price_at_time"`
}

type OrderPlacedPayload struct {
	OrderID        int64       `json:"order_id"`
	AccountID      int64       `json:"account_id"`
	TotalAmount    int64       `json:"total_amount"`
	AwardedBalance int64       `json:"awarded_balance"`
	Lines          []OrderLine `json:"lines"`
}

type OrderCancelledPayload struct {
	OrderID         int64 `json:"order_id"`
	AccountID       int64 `json:"account_id"`
	ReversedBalance int64 `json:"reversed_balance"`
}

type OrderStatusChangedPayload struct {
	OrderID   int64  `json:"order_id"`
	AccountID int64  `json:"account_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// Nop は何もしない（テスト用）
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
