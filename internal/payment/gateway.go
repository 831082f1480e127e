package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dnguyen/cinema-booking/internal/domain"
)

const requestType = "captureWallet"

// Gateway is the client for the wallet payment provider. Every outbound
// create-payment request and every inbound notification is authenticated
// with an HMAC-SHA256 signature over a fixed-order concatenation of the
// request fields.
type Gateway struct {
	endpoint    string
	partnerCode string
	accessKey   string
	secretKey   string
	returnURL   string
	notifyURL   string
	client      *http.Client
}

func NewGateway(endpoint, partnerCode, accessKey, secretKey, returnURL, notifyURL string) *Gateway {
	return &Gateway{
		endpoint:    endpoint,
		partnerCode: partnerCode,
		accessKey:   accessKey,
		secretKey:   secretKey,
		returnURL:   returnURL,
		notifyURL:   notifyURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	ReturnURL   string `json:"returnUrl"`
	NotifyURL   string `json:"notifyUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Signature   string `json:"signature"`
}

type createResponse struct {
	PayURL     string `json:"payUrl"`
	OrderID    string `json:"orderId"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// CreatePayment posts a signed create request to the provider and returns
// the redirect URL the customer completes the payment on. Provider failures
// are never retried here; the diagnostic text is preserved for the caller.
func (g *Gateway) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.CreatePaymentResponse, error) {
	body := createRequest{
		PartnerCode: g.partnerCode,
		AccessKey:   g.accessKey,
		RequestID:   req.OrderID,
		Amount:      req.Amount,
		OrderID:     req.OrderID,
		OrderInfo:   req.OrderInfo,
		ReturnURL:   g.returnURL,
		NotifyURL:   g.notifyURL,
		RequestType: requestType,
		ExtraData:   req.ExtraData,
	}
	body.Signature = g.signCreateRequest(body)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrPaymentGateway, resp.StatusCode, respBody)
	}

	var created createResponse

	err = json.Unmarshal(respBody, &created)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrPaymentGateway, err)
	}

	if created.ResultCode != 0 {
		return nil, fmt.Errorf("%w: %s (code %d)", domain.ErrPaymentGateway, created.Message, created.ResultCode)
	}

	return &domain.CreatePaymentResponse{
		PayURL:  created.PayURL,
		OrderID: created.OrderID,
		Message: created.Message,
	}, nil
}

// signCreateRequest hashes the documented field concatenation. Field order
// is part of the provider contract and must not change.
func (g *Gateway) signCreateRequest(req createRequest) string {
	raw := "accessKey=" + req.AccessKey +
		"&amount=" + strconv.FormatInt(req.Amount, 10) +
		"&extraData=" + req.ExtraData +
		"&orderId=" + req.OrderID +
		"&orderInfo=" + req.OrderInfo +
		"&partnerCode=" + req.PartnerCode +
		"&requestId=" + req.RequestID +
		"&returnUrl=" + req.ReturnURL

	return g.sign(raw)
}

// VerifyNotification authenticates an inbound server-to-server notification
// before any of its content may be trusted. The canonical string covers the
// response fields in fixed alphabetical order.
func (g *Gateway) VerifyNotification(n domain.PaymentNotification) error {
	raw := "accessKey=" + g.accessKey +
		"&amount=" + strconv.FormatInt(n.Amount, 10) +
		"&extraData=" + n.ExtraData +
		"&message=" + n.Message +
		"&orderId=" + n.OrderID +
		"&orderInfo=" + n.OrderInfo +
		"&orderType=" + n.OrderType +
		"&partnerCode=" + n.PartnerCode +
		"&payType=" + n.PayType +
		"&requestId=" + n.RequestID +
		"&responseTime=" + strconv.FormatInt(n.ResponseTime, 10) +
		"&resultCode=" + strconv.Itoa(n.ResultCode) +
		"&transId=" + n.TransID

	expected := g.sign(raw)

	if !hmac.Equal([]byte(expected), []byte(n.Signature)) {
		return domain.ErrInvalidSignature
	}

	return nil
}

func (g *Gateway) sign(data string) string {
	h := hmac.New(sha256.New, []byte(g.secretKey))
	h.Write([]byte(data))

	return hex.EncodeToString(h.Sum(nil))
}
