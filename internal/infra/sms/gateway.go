// Package sms implements SMS providers.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notifier/internal/common"
	"notifier/pkg/channel/sms"
)

const defaultBaseURL = "https://api.twilio.com"

var _ sms.Provider = (*GatewayProvider)(nil)

// GatewayProvider sends SMS through a Twilio-compatible Messages API.
type GatewayProvider struct {
	baseURL    string
	accountSID string
	authToken  string
	httpClient *http.Client
}

// NewGatewayProvider creates a gateway provider. An empty baseURL uses the
// Twilio API.
func NewGatewayProvider(baseURL, accountSID, authToken string) *GatewayProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GatewayProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider identifier.
func (p *GatewayProvider) Name() string { return "gateway" }

// Send posts msg to the Messages endpoint.
func (p *GatewayProvider) Send(ctx context.Context, msg *sms.Message) error {
	form := url.Values{}
	form.Set("To", msg.To.String())
	form.Set("From", msg.From.String())
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.baseURL, url.PathEscape(p.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(p.accountSID, p.authToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return common.NewProviderError(p.Name(), 0, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		if errResp.Message == "" {
			return common.NewProviderError(p.Name(), resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode))
		}
		return common.NewProviderError(p.Name(), resp.StatusCode, fmt.Errorf("code %d: %s", errResp.Code, errResp.Message))
	}

	return nil
}
