package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/winnyineza/RindwaApp-sub000/internal/api"
	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/tracker"
	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

// apiClient calls the notifyd HTTP API.
type apiClient struct {
	http *resty.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "notifyctl/"+version),
	}
}

// deliveriesQuery mirrors the GET /api/v1/deliveries query parameters.
type deliveriesQuery struct {
	Target         string
	Channel        string
	IncidentID     string
	SubscriptionID string
	Since          time.Time
	Limit          int
}

func (q deliveriesQuery) params() map[string]string {
	p := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	set("target", q.Target)
	set("channel", q.Channel)
	set("incidentId", q.IncidentID)
	set("subscriptionId", q.SubscriptionID)
	if !q.Since.IsZero() {
		p["since"] = q.Since.UTC().Format(time.RFC3339)
	}
	if q.Limit > 0 {
		p["limit"] = strconv.Itoa(q.Limit)
	}
	return p
}

func (c *apiClient) Stats(ctx context.Context) (tracker.Stats, error) {
	var out tracker.Stats
	err := c.do(c.http.R().SetContext(ctx).SetResult(&out), "GET", "/api/v1/stats")
	return out, err
}

func (c *apiClient) Deliveries(ctx context.Context, q deliveriesQuery) ([]types.DeliveryRecord, error) {
	var out api.DeliveriesResponse
	err := c.do(c.http.R().SetContext(ctx).SetQueryParams(q.params()).SetResult(&out), "GET", "/api/v1/deliveries")
	return out.Records, err
}

func (c *apiClient) LatestDeliveries(ctx context.Context, target string) ([]types.DeliveryRecord, error) {
	var out api.DeliveriesResponse
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if target != "" {
		req.SetQueryParam("target", target)
	}
	err := c.do(req, "GET", "/api/v1/deliveries/latest")
	return out.Records, err
}

func (c *apiClient) IncidentSubscriptions(ctx context.Context, incidentID string) ([]types.Subscription, error) {
	var out api.SubscriptionsResponse
	err := c.do(c.http.R().SetContext(ctx).SetPathParam("incidentID", incidentID).SetResult(&out),
		"GET", "/api/v1/incidents/{incidentID}/subscriptions")
	return out.Subscriptions, err
}

func (c *apiClient) Broadcast(ctx context.Context, req api.BroadcastRequest) (notifier.BroadcastResult, error) {
	var out notifier.BroadcastResult
	err := c.do(c.http.R().SetContext(ctx).SetBody(req).SetResult(&out), "POST", "/api/v1/broadcasts")
	return out, err
}

func (c *apiClient) do(req *resty.Request, method, path string) error {
	var apiErr api.ErrorResponse
	resp, err := req.SetError(&apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("%s %s: server returned %d: %s", method, path, resp.StatusCode(), msg)
	}
	return nil
}
