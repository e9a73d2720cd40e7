package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"salonhours/pkg/model"
)

// HolidayClient talks to the holiday-hours admin and footer API.
type HolidayClient struct {
	httpClient *HttpClient
}

func NewHolidayClient(baseUrl string) *HolidayClient {
	return &HolidayClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// WaitForHealthy polls /health until it answers 200 or maxWait elapses.
func (c *HolidayClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(ctx, maxWait)
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("holiday-hours API returned %d: %s", e.StatusCode, e.Message)
}

func (c *HolidayClient) Create(ctx context.Context, hs *model.HolidaySchedule, idempotencyKey string) (*model.HolidaySchedule, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	var out model.HolidaySchedule
	if err := c.decode(c.httpClient.POSTWithHeaders(ctx, "/api/v1/holidays", hs, headers))(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HolidayClient) GetAll(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, error) {
	path := fmt.Sprintf("/api/v1/holidays?limit=%d&offset=%d", limit, offset)
	var out []*model.HolidaySchedule
	if err := c.decode(c.httpClient.GET(ctx, path))(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HolidayClient) GetByID(ctx context.Context, id string) (*model.HolidaySchedule, error) {
	var out model.HolidaySchedule
	if err := c.decode(c.httpClient.GET(ctx, "/api/v1/holidays/id/"+url.PathEscape(id)))(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HolidayClient) Update(ctx context.Context, id string, updates *model.HolidayScheduleUpdate) (*model.HolidaySchedule, error) {
	var out model.HolidaySchedule
	if err := c.decode(c.httpClient.PATCH(ctx, "/api/v1/holidays/id/"+url.PathEscape(id), updates))(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HolidayClient) Delete(ctx context.Context, id string) error {
	return c.decode(c.httpClient.DELETE(ctx, "/api/v1/holidays/id/"+url.PathEscape(id)))(nil)
}

// Activate returns the ids the service switched on, normally just id.
func (c *HolidayClient) Activate(ctx context.Context, id string) ([]string, error) {
	var out activationResult
	err := c.decode(c.httpClient.POST(ctx, "/api/v1/holidays/id/"+url.PathEscape(id)+"/activate", nil))(&out)
	return out.activeIDs(), err
}

func (c *HolidayClient) DeactivateAll(ctx context.Context) (int, error) {
	var out activationResult
	err := c.decode(c.httpClient.POST(ctx, "/api/v1/holidays/deactivate", nil))(&out)
	return len(out.Flips), err
}

func (c *HolidayClient) GetLegacy(ctx context.Context) (*model.LegacySchedule, error) {
	var out model.LegacySchedule
	if err := c.decode(c.httpClient.GET(ctx, "/api/v1/legacy-schedule"))(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HolidayClient) SaveLegacy(ctx context.Context, ls *model.LegacySchedule) (*model.LegacySchedule, error) {
	var out model.LegacySchedule
	if err := c.decode(c.httpClient.PUT(ctx, "/api/v1/legacy-schedule", ls))(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Footer fetches the week as shown on date, or today when date is empty.
func (c *HolidayClient) Footer(ctx context.Context, date string) (*model.FooterHours, error) {
	path := "/api/v1/footer/hours"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var out model.FooterHours
	if err := c.decode(c.httpClient.GET(ctx, path))(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

type activationResult struct {
	Flips []struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	} `json:"flips"`
}

func (r activationResult) activeIDs() []string {
	var ids []string
	for _, f := range r.Flips {
		if f.Active {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// decode turns a raw response into an error or decoded data.
func (c *HolidayClient) decode(resp *Response, err error) func(target any) error {
	return func(target any) error {
		if err != nil {
			return err
		}
		if !resp.OK() {
			return &APIError{StatusCode: resp.StatusCode, Message: GetErrorMessage(resp)}
		}
		if target == nil || len(resp.Body) == 0 {
			return nil
		}
		return resp.DecodeData(target)
	}
}
