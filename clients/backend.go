package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/utils"
)

const (
	pathState       = "/api/payment/{sessionKey}/state"
	pathQR          = "/api/payment/{sessionKey}/qr"
	pathTransaction = "/api/payment/merchant/{paymentId}/transaction"
	pathWalletPay   = "/api/payment/{sessionKey}/wallet-pay"

	headerRequestID = "X-Request-ID"
)

// APIClient talks to the payment backend over HTTP.
type APIClient struct {
	http    *resty.Client
	log     logger.Logger
	metrics metrics.Recorder
}

// NewAPIClient creates a backend client rooted at serverURL.
func NewAPIClient(serverURL string, timeout time.Duration, log logger.Logger, rec metrics.Recorder) *APIClient {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(serverURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	hc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(headerRequestID) == "" {
			r.SetHeader(headerRequestID, uuid.NewString())
		}
		return nil
	})

	return &APIClient{
		http:    hc,
		log:     log,
		metrics: rec,
	}
}

// SessionState fetches the bootstrap snapshot of a session.
func (c *APIClient) SessionState(ctx context.Context, sessionKey string) (*types.SessionSnapshot, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("sessionKey", sessionKey).
		Get(pathState)
	c.observe("state", start, err, resp)

	if err != nil {
		return nil, types.NewError(types.ErrTransport, "session state request failed", err)
	}

	if resp.IsError() {
		return nil, types.NewError(types.ErrSessionNotFound, fmt.Sprintf("session not found (HTTP %d)", resp.StatusCode()), nil)
	}

	return utils.ParseStateEnvelope(resp.Body())
}

// GenerateQR asks the backend to issue the payment QR code and returns
// its image source (data URL or link).
func (c *APIClient) GenerateQR(ctx context.Context, sessionKey string) (string, error) {
	var out types.QRResponse

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("sessionKey", sessionKey).
		SetBody(map[string]any{}).
		SetResult(&out).
		Post(pathQR)
	c.observe("qr", start, err, resp)

	if err != nil {
		return "", types.NewError(types.ErrQRGenerationFailed, "QR generation failed", err)
	}

	if resp.IsError() {
		return "", types.NewError(types.ErrQRGenerationFailed, fmt.Sprintf("QR generation failed (HTTP %d)", resp.StatusCode()), nil)
	}

	if out.QRCode == "" {
		return "", types.NewError(types.ErrQRGenerationFailed, "QR generation returned no image", nil)
	}

	return out.QRCode, nil
}

// CreateTransaction requests an unsigned, base64 encoded payment
// transaction for account.
func (c *APIClient) CreateTransaction(ctx context.Context, paymentID, account string) (string, error) {
	var out types.TransactionResponse

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("paymentId", paymentID).
		SetBody(types.TransactionRequest{Account: account}).
		SetResult(&out).
		Post(pathTransaction)
	c.observe("transaction", start, err, resp)

	if err != nil {
		return "", types.NewError(types.ErrTransactionCreationFailed, types.MsgTransactionCreationFailed, err)
	}

	if resp.IsError() || out.Transaction == "" {
		return "", types.NewError(types.ErrTransactionCreationFailed, types.MsgTransactionCreationFailed, nil)
	}

	return out.Transaction, nil
}

// RecordWalletPayment reports a broadcast transaction signature against
// the session.
func (c *APIClient) RecordWalletPayment(ctx context.Context, sessionKey, walletAddress, signature string) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("sessionKey", sessionKey).
		SetBody(types.WalletPayRequest{
			WalletAddress: walletAddress,
			TransactionID: signature,
		}).
		Post(pathWalletPay)
	c.observe("wallet_pay", start, err, resp)

	if err != nil {
		return types.NewError(types.ErrPaymentRecordingFailed, types.MsgPaymentRecordingFailed, err)
	}

	if resp.IsError() {
		var env types.APIEnvelope
		msg := types.MsgPaymentRecordingFailed
		if json.Unmarshal(resp.Body(), &env) == nil && env.Error != "" {
			msg = env.Error
		}
		return types.NewError(types.ErrPaymentRecordingFailed, msg, nil)
	}

	return nil
}

func (c *APIClient) observe(op string, start time.Time, err error, resp *resty.Response) {
	c.metrics.ObserveLatency(metrics.OpBackendCall, time.Since(start), map[string]string{"label": op})

	switch {
	case err != nil:
		c.log.Warn("backend call failed", map[string]any{"op": op, "error": err})
	case resp.IsError():
		c.log.Warn("backend call rejected", map[string]any{"op": op, "status": resp.StatusCode()})
	default:
		c.log.Debug("backend call", map[string]any{"op": op, "status": resp.StatusCode(), "elapsed": resp.Time()})
	}
}
