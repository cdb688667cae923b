package paypal

import (
	"fmt"
	"net/url"

	"github.com/bizadvisor/advisor/pkg/config"
)

// Handoff is the external payment reference returned by checkout initiation.
// The client redirects the user to ApprovalURL; confirmation arrives
// out-of-band on the webhook.
type Handoff struct {
	PlanID      string `json:"paypal_plan_id"`
	ApprovalURL string `json:"approval_url"`
}

// Client builds hosted-checkout handoffs. It never calls the PayPal API:
// billing agreement approval happens entirely on the hosted page.
type Client struct {
	checkoutBaseURL string
	webhookID       string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		checkoutBaseURL: cfg.PayPal.CheckoutBaseURL,
		webhookID:       cfg.PayPal.WebhookID,
	}
}

// CheckoutHandoff returns the handoff reference for a provider plan id.
func (c *Client) CheckoutHandoff(paypalPlanID string) (*Handoff, error) {
	if paypalPlanID == "" {
		return nil, fmt.Errorf("paypal plan id is empty")
	}
	u, err := url.Parse(c.checkoutBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout base url: %w", err)
	}
	q := u.Query()
	q.Set("plan_id", paypalPlanID)
	u.RawQuery = q.Encode()
	return &Handoff{PlanID: paypalPlanID, ApprovalURL: u.String()}, nil
}

// VerifyWebhookID checks the shared webhook identifier presented by the
// confirmation callback.
func (c *Client) VerifyWebhookID(id string) bool {
	return c.webhookID != "" && id == c.webhookID
}
