package stripe

import (
	"context"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

type Client struct {
	api *client.API
}

func NewClient(secretKey string) *Client {
	return &Client{api: client.New(secretKey, nil)}
}

// FindCustomerByEmail usa a Search API; retorna found=false quando não existe cliente.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (string, bool, error) {
	params := &stripego.CustomerSearchParams{
		SearchParams: stripego.SearchParams{
			Context: ctx,
			Query:   fmt.Sprintf("email:'%s'", escapeQuery(email)),
			Limit:   stripego.Int64(1),
			Single:  true,
		},
	}

	iter := c.api.Customers.Search(params)
	if iter.Next() {
		return iter.Customer().ID, true, nil
	}
	if err := iter.Err(); err != nil {
		return "", false, fmt.Errorf("erro ao buscar cliente stripe: %w", err)
	}
	return "", false, nil
}

func (c *Client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (string, error) {
	params := &stripego.CustomerParams{
		Email: stripego.String(input.Email),
		Name:  stripego.String(input.Name),
	}
	params.Context = ctx
	if input.Phone != "" {
		params.Phone = stripego.String(input.Phone)
	}
	if input.BillingCountry != "" {
		params.Address = &stripego.AddressParams{Country: stripego.String(input.BillingCountry)}
	}

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("erro ao criar cliente stripe: %w", err)
	}
	return customer.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, config SessionConfig) (*CheckoutSession, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	params := &stripego.CheckoutSessionParams{
		Mode: stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(config.PriceID),
				Quantity: stripego.Int64(1),
			},
		},
		BillingAddressCollection: stripego.String(string(stripego.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripego.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripego.Bool(true),
		},
		SuccessURL: stripego.String(config.SuccessURL),
		CancelURL:  stripego.String(config.CancelURL),
		Metadata:   config.Metadata,
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: config.Metadata,
		},
	}
	params.Context = ctx

	if config.Customer != "" {
		params.Customer = stripego.String(config.Customer)
	} else if config.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(config.CustomerEmail)
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar sessão de checkout: %w", err)
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func escapeQuery(value string) string {
	return strings.ReplaceAll(value, "'", "\\'")
}
