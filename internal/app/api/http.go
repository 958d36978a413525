package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// DefaultTimeout bounds every request independently of any UI timeout.
const DefaultTimeout = 10 * time.Second

// maxErrorBody limits how much of an error response body is read when
// extracting the server-supplied message.
const maxErrorBody = 64 << 10

// HTTPClient implements Client over the backend's JSON/HTTPS surface.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewHTTPClient builds a client rooted at baseURL. A non-positive timeout
// falls back to DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// errorBody is the shape backend error responses may carry.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, method, path, out)
}

// send decorates the request, executes it and decodes the response into out
// (when non-nil). All failures come back as ErrNetwork, ErrTimeout or
// *APIError.
func (c *HTTPClient) send(req *http.Request, method, path string, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	if tok, err := c.tokens.Token(req.Context()); err != nil {
		// No token is not an error at this layer: the header is simply
		// omitted and the server decides.
		c.log.Warn(req.Context(), "token source failed, sending unauthenticated",
			"request_id", requestID, "error", err)
	} else if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		mapped := mapTransportError(method, path, err)
		c.log.Warn(req.Context(), "request failed",
			"request_id", requestID, "method", method, "path", path, "error", err)
		return mapped
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := errorFromResponse(resp)
		c.log.Warn(req.Context(), "request rejected",
			"request_id", requestID, "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}

	c.log.Debug(req.Context(), "request completed",
		"request_id", requestID, "method", method, "path", path, "status", resp.StatusCode)
	return nil
}

// mapTransportError normalizes transport failures: deadline overruns become
// ErrTimeout, everything else that never produced a response becomes
// ErrNetwork. Caller-initiated cancellation passes through untouched.
func mapTransportError(method, path string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
	}
	return fmt.Errorf("%s %s: %w", method, path, ErrNetwork)
}

// errorFromResponse builds an *APIError from a non-success response,
// preferring the server-supplied message.
func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(data) > 0 {
		var eb errorBody
		if jsonErr := json.Unmarshal(data, &eb); jsonErr == nil {
			if eb.Message != "" {
				apiErr.Message = eb.Message
			} else if eb.Error != "" {
				apiErr.Message = eb.Error
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		if apiErr.Message == "" {
			apiErr.Message = "request failed"
		}
	}
	return apiErr
}

// ---- auth ----

func (c *HTTPClient) RequestOTP(ctx context.Context, phoneNumber string) error {
	body := map[string]string{"phoneNumber": phoneNumber}
	return c.do(ctx, http.MethodPost, "/v1/auth/request-otp-sms", nil, body, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, phoneNumber, code string) (*models.OTPVerifyResult, error) {
	body := map[string]string{"phoneNumber": phoneNumber, "code": code}
	var out models.OTPVerifyResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/verify-otp-sms", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- profile ----

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCurrentUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/v1/users/me", nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- gifts ----

func (c *HTTPClient) CreateGift(ctx context.Context, in models.CreateGiftInput) (*models.Gift, error) {
	var out models.Gift
	if err := c.do(ctx, http.MethodPost, "/v1/gifts", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListGifts(ctx context.Context) ([]models.Gift, error) {
	var out []models.Gift
	if err := c.do(ctx, http.MethodGet, "/v1/gifts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetGift(ctx context.Context, giftID string) (*models.Gift, error) {
	var out models.Gift
	if err := c.do(ctx, http.MethodGet, "/v1/gifts/"+url.PathEscape(giftID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateGift(ctx context.Context, giftID string, in models.UpdateGiftInput) (*models.Gift, error) {
	var out models.Gift
	if err := c.do(ctx, http.MethodPut, "/v1/gifts/"+url.PathEscape(giftID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteGift(ctx context.Context, giftID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/gifts/"+url.PathEscape(giftID), nil, nil, nil)
}

func (c *HTTPClient) GiftStats(ctx context.Context) (*models.GiftStats, error) {
	var out models.GiftStats
	if err := c.do(ctx, http.MethodGet, "/v1/gifts/me/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RecentFunded(ctx context.Context, limit int) ([]models.FundedGift, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var out struct {
		Gifts []models.FundedGift `json:"gifts"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/gifts/me/recent-funded", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Gifts, nil
}

func (c *HTTPClient) GiftMedia(ctx context.Context, giftID string) (string, error) {
	var out struct {
		DonorPhotoURL string `json:"donorPhotoUrl"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/gifts/"+url.PathEscape(giftID)+"/media", nil, nil, &out); err != nil {
		return "", err
	}
	return out.DonorPhotoURL, nil
}

// ---- wallet ----

func (c *HTTPClient) WalletSummary(ctx context.Context) (*models.WalletSummary, error) {
	var out models.WalletSummary
	if err := c.do(ctx, http.MethodGet, "/v1/wallet/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) WalletActivity(ctx context.Context, limit int, cursor string) (*models.ActivityPage, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	var out models.ActivityPage
	if err := c.do(ctx, http.MethodGet, "/v1/wallet/activity", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreatePayout(ctx context.Context, req models.PayoutRequest) (*models.Payout, error) {
	if req.Speed == "" {
		req.Speed = models.PayoutStandard
	}
	var out models.Payout
	if err := c.do(ctx, http.MethodPost, "/v1/wallet/payouts", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- Stripe Connect ----

func (c *HTTPClient) CreateConnectAccount(ctx context.Context) (string, error) {
	var out struct {
		AccountID string `json:"accountId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/stripe-connect/account", nil, nil, &out); err != nil {
		return "", err
	}
	return out.AccountID, nil
}

func (c *HTTPClient) CreateAccountLink(ctx context.Context, returnContext string) (string, error) {
	body := map[string]string{"returnContext": returnContext}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/stripe-connect/account-link", nil, body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *HTTPClient) ConnectStatus(ctx context.Context) (*models.ConnectStatus, error) {
	var out models.ConnectStatus
	if err := c.do(ctx, http.MethodGet, "/v1/stripe-connect/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- public updates ----

func (c *HTTPClient) ListUpdates(ctx context.Context, limit int) ([]models.Update, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var out struct {
		Updates []models.Update `json:"updates"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/public/updates", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Updates, nil
}

// ---- uploads ----

func (c *HTTPClient) UploadAvatar(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error) {
	return c.upload(ctx, "/v1/uploads/profile/avatar", "avatar", filename, content)
}

func (c *HTTPClient) UploadBanner(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error) {
	return c.upload(ctx, "/v1/uploads/profile/banner", "banner", filename, content)
}

func (c *HTTPClient) UploadGallery(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error) {
	return c.upload(ctx, "/v1/uploads/profile/gallery", "gallery", filename, content)
}

func (c *HTTPClient) UploadGiftMedia(ctx context.Context, giftID, filename string, content io.Reader) (*models.UploadResult, error) {
	return c.upload(ctx, "/v1/uploads/gifts/"+url.PathEscape(giftID)+"/media", "gift", filename, content)
}

// upload POSTs content as a multipart "file" part. The stored name is
// regenerated as <kind>-<uuid><ext> so concurrent uploads never collide.
func (c *HTTPClient) upload(ctx context.Context, path, kind, filename string, content io.Reader) (*models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", uploadName(kind, filename))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("upload %s: read content: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.UploadResult
	if err := c.send(req, http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// uploadName builds the stored filename, keeping the original extension.
func uploadName(kind, original string) string {
	ext := filepath.Ext(original)
	if ext == "" {
		ext = ".jpg"
	}
	return kind + "-" + uuid.NewString() + ext
}
