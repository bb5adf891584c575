package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/models"
	"github.com/kasaapp/kasa/internal/services"
)

// Billing creates Stripe payment intents and turns webhook events into
// payment records.
type Billing struct {
	cfg            config.StripeConfig
	paymentService services.PaymentService
}

// NewBilling configures the Stripe client and returns a billing service
func NewBilling(cfg config.StripeConfig, paymentService services.PaymentService) *Billing {
	stripe.Key = cfg.SecretKey
	return &Billing{
		cfg:            cfg,
		paymentService: paymentService,
	}
}

// IntentRequest asks for a new payment intent on behalf of a family.
type IntentRequest struct {
	FamilyID uint            `json:"familyId"`
	MemberID *uint           `json:"memberId,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// IntentResponse carries the client secret the frontend needs to confirm
// the payment.
type IntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
}

// WebhookResult reports what a webhook delivery did. Deliveries that are
// valid but irrelevant are handled with Recorded=false, not rejected, so
// Stripe does not retry them.
type WebhookResult struct {
	EventType string `json:"eventType"`
	Recorded  bool   `json:"recorded"`
	PaymentID uint   `json:"paymentId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CreateIntent opens a Stripe payment intent carrying the family ID in
// its metadata
func (b *Billing) CreateIntent(req IntentRequest) (IntentResponse, error) {
	if b.cfg.SecretKey == "" {
		return IntentResponse{}, fmt.Errorf("stripe is not configured")
	}

	metadata := map[string]string{
		"family_id": strconv.FormatUint(uint64(req.FamilyID), 10),
	}
	if req.MemberID != nil {
		metadata["member_id"] = strconv.FormatUint(uint64(*req.MemberID), 10)
	}

	params := &stripe.PaymentIntentParams{
		// Stripe amounts are in cents
		Amount:   stripe.Int64(req.Amount.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Metadata = metadata

	intent, err := paymentintent.New(params)
	if err != nil {
		return IntentResponse{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return IntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

// HandleWebhook verifies a webhook delivery and records a payment when a
// payment intent succeeds.
func (b *Billing) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, b.cfg.WebhookSecret)
	if err != nil {
		return WebhookResult{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	result := WebhookResult{EventType: string(event.Type)}

	if event.Type != "payment_intent.succeeded" {
		result.Message = "event ignored"
		return result, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return result, fmt.Errorf("failed to decode payment intent: %w", err)
	}

	familyID, err := strconv.ParseUint(intent.Metadata["family_id"], 10, 64)
	if err != nil {
		result.Message = "payment intent has no family metadata"
		slog.Warn("stripe payment intent missing family_id", "intent", intent.ID)
		return result, nil
	}

	payment := models.Payment{
		FamilyID:              uint(familyID),
		Amount:                decimal.NewFromInt(intent.Amount).Div(decimal.NewFromInt(100)),
		PaymentDate:           time.Now(),
		PaymentMethod:         models.PaymentMethodCreditCard,
		StripePaymentIntentID: intent.ID,
	}
	if memberID, err := strconv.ParseUint(intent.Metadata["member_id"], 10, 64); err == nil {
		id := uint(memberID)
		payment.MemberID = &id
	}

	created, err := b.paymentService.CreatePayment(payment)
	if err != nil {
		return result, fmt.Errorf("failed to record stripe payment: %w", err)
	}

	result.Recorded = true
	result.PaymentID = created.ID
	return result, nil
}
