package habitica

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
)

const DefaultBaseURL = "https://habitica.com/api/v3"

type Client struct {
	apiUser string
	apiKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiUser, apiKey string) *Client {
	return &Client{apiUser: apiUser, apiKey: apiKey, BaseURL: DefaultBaseURL, HTTP: http.DefaultClient}
}

// TaskFilter narrows /tasks/user. Type is one of habits, dailys, todos or
// rewards. DueDate (YYYY-MM-DD) makes Habitica compute isDue for that day.
type TaskFilter struct {
	Type    string `url:"type,omitempty"`
	DueDate string `url:"dueDate,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.BaseURL, "/"), strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Add("x-api-user", c.apiUser)
	req.Header.Add("x-api-key", c.apiKey)
	req.Header.Add("x-client", fmt.Sprintf("%s-habiterr", c.apiUser))
	return req, nil
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("unable to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Response: resp}
		respBody, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(respBody, apiErr)
		slog.Error("error calling habitica api", "code", resp.StatusCode, "resp", string(respBody), "url", req.URL)
		return apiErr
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (c *Client) tasks(ctx context.Context, filter TaskFilter, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, "tasks/user", nil)
	if err != nil {
		return fmt.Errorf("unable to create request: %w", err)
	}
	q, err := query.Values(filter)
	if err != nil {
		return fmt.Errorf("unable to encode filter: %w", err)
	}
	req.URL.RawQuery = q.Encode()
	return c.do(req, v)
}

func (c *Client) GetHabits(ctx context.Context) ([]Habit, error) {
	var resp HabitsResponse
	if err := c.tasks(ctx, TaskFilter{Type: "habits"}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetDailys lists dailys with isDue evaluated for dueDate. An empty dueDate
// leaves that to Habitica, which uses the user's current day.
func (c *Client) GetDailys(ctx context.Context, dueDate string) ([]Daily, error) {
	var resp DailysResponse
	if err := c.tasks(ctx, TaskFilter{Type: "dailys", DueDate: dueDate}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
