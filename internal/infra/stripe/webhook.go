package stripe

import (
	"fmt"

	"github.com/stripe/stripe-go/v82/webhook"
)

// WebhookVerifier validates Stripe-Signature headers against the endpoint
// signing secret and hands back the event type plus the raw event object.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("stripe webhook secret is required")
	}
	return &WebhookVerifier{secret: secret}, nil
}

func (v *WebhookVerifier) Verify(payload []byte, sigHeader string) (string, []byte, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, v.secret)
	if err != nil {
		return "", nil, fmt.Errorf("verify webhook signature: %w", err)
	}
	return string(event.Type), event.Data.Raw, nil
}
