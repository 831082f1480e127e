package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentAttempt is the per-order state machine shared by the redirect
// callback and the asynchronous notification. It persists everything needed
// to commit a booking so that neither channel depends on session state.
type PaymentAttempt struct {
	OrderID     string
	UserID      int
	ScreeningID int
	RoomID      int
	SeatNumbers []string
	LockID      string
	Amount      decimal.Decimal
	Status      PaymentStatus
	TransID     string
	ErrorMsg    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, attempt *PaymentAttempt) error
	GetByOrderId(ctx context.Context, orderID string) (*PaymentAttempt, error)
	UpdateStatus(ctx context.Context, orderID string, status PaymentStatus, transID, errMsg string) error
}

// CreatePaymentRequest is the outbound signed create-payment call.
type CreatePaymentRequest struct {
	OrderID   string
	Amount    int64
	OrderInfo string
	// ExtraData is an opaque blob round-tripped by the provider; we store a
	// base64-encoded JSON document naming the lock the order was created
	// under. The authoritative booking context lives in payment_attempts.
	ExtraData string
}

type CreatePaymentResponse struct {
	PayURL  string
	OrderID string
	Message string
}

// PaymentNotification is the server-to-server notification (IPN) body. The
// provider signs the fields with a keyed hash; Signature must be verified
// before anything else is trusted.
type PaymentNotification struct {
	PartnerCode  string `json:"partnerCode"`
	AccessKey    string `json:"accessKey"`
	RequestID    string `json:"requestId"`
	OrderID      string `json:"orderId"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      string `json:"transId"`
	Amount       int64  `json:"amount"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

type PaymentProvider interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	VerifyNotification(n PaymentNotification) error
}
