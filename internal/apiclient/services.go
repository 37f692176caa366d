package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func jsonHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func (c *Client) SendOTP(ctx context.Context, data OTPData) (*Response, error) {
	return c.Post(ctx, SendOTP, data, nil)
}

func (c *Client) ValidateOTP(ctx context.Context, data OTPData) (*Response, error) {
	return c.Post(ctx, ValidateOTP, data, nil)
}

// ChangePassword posts the form; the response is returned even on non-2xx.
func (c *Client) ChangePassword(ctx context.Context, data ChangePasswordData) (*Response, error) {
	return c.Post(ctx, ChangePassword, data, jsonHeaders())
}

func (c *Client) Logout(ctx context.Context, email string) (*Response, error) {
	return c.Post(ctx, Logout, map[string]string{"email": email}, nil)
}

func (c *Client) GetUsers(ctx context.Context) (*Response, error) {
	return c.Get(ctx, GetUsers)
}

// GetTickets lists the tickets owned by email.
func (c *Client) GetTickets(ctx context.Context, email string) (*Response, error) {
	return c.GetWithParams(ctx, GetTickets, url.Values{"email": {email}})
}

func (c *Client) ServiceStatus(ctx context.Context) (*Response, error) {
	return c.Get(ctx, ServiceStatus)
}

func (c *Client) PurchaseTicket(ctx context.Context, data PurchaseData) (*Response, error) {
	return c.Post(ctx, PurchaseTicket, data, nil)
}

func (c *Client) RefundTicket(ctx context.Context, data RefundData) (*Response, error) {
	return c.Post(ctx, Refund, data, nil)
}

// GetFares returns every fare of the given mode ("train" or "bus").
func (c *Client) GetFares(ctx context.Context, mode string) (*Response, error) {
	if mode == "bus" {
		return c.Get(ctx, GetAllBusFare)
	}
	return c.Get(ctx, GetAllTrainFare)
}

// GetRoutes returns every route of the given mode ("train" or "bus").
func (c *Client) GetRoutes(ctx context.Context, mode string) (*Response, error) {
	if mode == "bus" {
		return c.Get(ctx, GetAllBusRoutes)
	}
	return c.Get(ctx, GetAllTrainRoutes)
}

func (c *Client) CreatePaymentIntent(ctx context.Context, data PaymentIntentData) (*Response, error) {
	return c.Post(ctx, CreatePaymentIntent, data, nil)
}

func (c *Client) SendMessage(ctx context.Context, data MessageData) (*Response, error) {
	return c.Post(ctx, SendMessage, data, nil)
}
