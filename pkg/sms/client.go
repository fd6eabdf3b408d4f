package sms

import (
	"context"
	"fmt"

	"github.com/arsmn/go-smsir/smsir"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

// BookingStatus is the payload of a booking status SMS. The sms.ir template
// must declare the parameters "name", "date" and "status".
type BookingStatus struct {
	Phone  string // E.164
	Name   string
	Date   string // already formatted in the clinic timezone
	Status string
}

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client     *smsir.Client
	templateID string
	enabled    bool
}

// NewFromConfig returns a no-op client when SMS is disabled.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.TemplateID == "" {
		return nil, fmt.Errorf("sms.ir template id required when SMS enabled")
	}

	return &Client{
		client:     smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey),
		templateID: cfg.SMSIR.TemplateID,
		enabled:    true,
	}, nil
}

// templateRequest validates msg and builds the sms.ir UltraFast request.
func (c *Client) templateRequest(msg BookingStatus) (*smsir.UltraFastSendRequest, error) {
	switch {
	case msg.Phone == "":
		return nil, fmt.Errorf("phone number is required")
	case msg.Status == "":
		return nil, fmt.Errorf("status is required")
	}

	return &smsir.UltraFastSendRequest{
		Mobile:     msg.Phone,
		TemplateID: c.templateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "name", Value: msg.Name},
			{Key: "date", Value: msg.Date},
			{Key: "status", Value: msg.Status},
		},
	}, nil
}

// SendBookingStatus tells a patient their booking was confirmed or rejected.
// It is a no-op when SMS is disabled.
func (c *Client) SendBookingStatus(ctx context.Context, msg BookingStatus) error {
	if !c.enabled {
		return nil
	}

	req, err := c.templateRequest(msg)
	if err != nil {
		return err
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}
	return nil
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}
