// Package postgrest talks to the hosted database's REST API with a
// service-role key. The client keeps no session and never refreshes tokens:
// every request carries the same key.
package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/convoflow/crm-bridge-go/internal/errors"
	"github.com/convoflow/crm-bridge-go/internal/util"
)

const (
	serviceName = "database REST API"
	restPath    = "/rest/v1"

	acceptSingle = "application/vnd.pgrst.object+json"

	preferMinimal        = "return=minimal"
	preferRepresentation = "return=representation"
)

type Client struct {
	http *resty.Client
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// New builds a client for the service at baseURL, e.g. https://xyz.supabase.co.
func New(baseURL, serviceRoleKey string, opts ...Option) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+restPath).
		SetHeader("apikey", serviceRoleKey).
		SetAuthToken(serviceRoleKey).
		SetHeader("Content-Type", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	return &Client{http: c}
}

// SelectSingle fetches the one row of table whose columns equal match.
// Zero or several matching rows come back as an *Error with code PGRST116.
func (c *Client) SelectSingle(ctx context.Context, table string, match map[string]any, dest any) error {
	if err := checkTable(table); err != nil {
		return err
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", acceptSingle).
		SetQueryParam("select", "*")

	for _, col := range sortedKeys(match) {
		if !util.IsValidIdentifier(col) {
			return apperrors.InvalidInput("column", col)
		}
		req.SetQueryParam(col, "eq."+fmt.Sprint(match[col]))
	}

	resp, err := req.Get("/" + table)
	if err != nil {
		return transportError(err)
	}
	return decode(resp, dest)
}

// Insert writes one row and discards the representation.
func (c *Client) Insert(ctx context.Context, table string, data map[string]any) error {
	if err := checkTable(table); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", preferMinimal).
		SetBody(data).
		Post("/" + table)
	if err != nil {
		return transportError(err)
	}
	return decode(resp, nil)
}

// InsertAndSelect writes one row and reads it back as a single object.
func (c *Client) InsertAndSelect(ctx context.Context, table string, data map[string]any, dest any) error {
	if err := checkTable(table); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetHeader("Accept", acceptSingle).
		SetBody(data).
		Post("/" + table)
	if err != nil {
		return transportError(err)
	}
	return decode(resp, dest)
}

// Ping checks that the REST endpoint answers and accepts the key.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return transportError(err)
	}
	return decode(resp, nil)
}

func decode(resp *resty.Response, dest any) error {
	if resp.IsError() {
		return parseError(resp.StatusCode(), resp.Body())
	}
	if dest == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transportError wraps a request that never got an HTTP response.
func transportError(err error) error {
	return apperrors.External(serviceName, err)
}

func checkTable(table string) error {
	if !util.IsValidIdentifier(table) {
		return apperrors.InvalidInput("table", table)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
