// Package ledger talks to the UnbelievaBoat economy that holds user money.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"idolbot/infrastructure/observability"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound   = errors.New("user not found in the currency ledger")
	ErrLedgerDisabled = errors.New("currency ledger is not configured")
)

// balanceResponse is the user balance document returned by the API
type balanceResponse struct {
	UserID string `json:"user_id"`
	Cash   int64  `json:"cash"`
	Bank   int64  `json:"bank"`
	Total  int64  `json:"total"`
}

type balanceEdit struct {
	Cash   int64  `json:"cash"`
	Reason string `json:"reason,omitempty"`
}

// Client is a CurrencyLedger backed by the UnbelievaBoat REST API
type Client struct {
	http    heimdall.Client
	baseURL string
	token   string
	guildID string
}

// Config holds the client settings
type Config struct {
	BaseURL    string
	Token      string
	GuildID    string
	Timeout    time.Duration
	RetryCount int
}

// NewClient creates a ledger client with retries on transient failures
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}

	backoff := heimdall.NewExponentialBackoff(100*time.Millisecond, 2*time.Second, 2.0, 50*time.Millisecond)

	return &Client{
		http: httpclient.NewClient(
			httpclient.WithHTTPTimeout(cfg.Timeout),
			httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
			httpclient.WithRetryCount(cfg.RetryCount),
		),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		guildID: cfg.GuildID,
	}
}

// Award adds amount to a user's cash balance
func (c *Client) Award(ctx context.Context, discordID string, amount int64) error {
	err := c.editCash(ctx, discordID, amount, "Guess the idol reward")
	observability.GetMetrics().RecordLedgerCall("award", err)
	if err != nil {
		return fmt.Errorf("failed to award %d to %s: %w", amount, discordID, err)
	}

	log.WithFields(log.Fields{
		"discord_id": discordID,
		"amount":     amount,
	}).Debug("Awarded currency")
	return nil
}

// Subtract removes amount from a user's cash balance
func (c *Client) Subtract(ctx context.Context, discordID string, amount int64) error {
	err := c.editCash(ctx, discordID, -amount, "Idol bot charge")
	observability.GetMetrics().RecordLedgerCall("subtract", err)
	if err != nil {
		return fmt.Errorf("failed to subtract %d from %s: %w", amount, discordID, err)
	}

	log.WithFields(log.Fields{
		"discord_id": discordID,
		"amount":     amount,
	}).Debug("Subtracted currency")
	return nil
}

// Balance returns a user's total balance, cash plus bank
func (c *Client) Balance(ctx context.Context, discordID string) (int64, error) {
	var balance balanceResponse
	err := c.do(ctx, http.MethodGet, c.userURL(discordID), nil, &balance)
	observability.GetMetrics().RecordLedgerCall("balance", err)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of %s: %w", discordID, err)
	}
	return balance.Total, nil
}

func (c *Client) editCash(ctx context.Context, discordID string, delta int64, reason string) error {
	body, err := json.Marshal(balanceEdit{Cash: delta, Reason: reason})
	if err != nil {
		return fmt.Errorf("failed to encode balance edit: %w", err)
	}
	return c.do(ctx, http.MethodPatch, c.userURL(discordID), body, nil)
}

func (c *Client) userURL(discordID string) string {
	return fmt.Sprintf("%s/guilds/%s/users/%s", c.baseURL, c.guildID, discordID)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ledger returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode ledger response: %w", err)
	}
	return nil
}

// Disabled stands in for the ledger when no API token is configured. Awards
// and charges are dropped; balance reads fail so callers use their fallback.
type Disabled struct{}

func (Disabled) Award(ctx context.Context, discordID string, amount int64) error {
	log.WithFields(log.Fields{
		"discord_id": discordID,
		"amount":     amount,
	}).Debug("Currency ledger disabled, award dropped")
	return nil
}

func (Disabled) Subtract(ctx context.Context, discordID string, amount int64) error {
	log.WithFields(log.Fields{
		"discord_id": discordID,
		"amount":     amount,
	}).Debug("Currency ledger disabled, charge dropped")
	return nil
}

func (Disabled) Balance(ctx context.Context, discordID string) (int64, error) {
	return 0, ErrLedgerDisabled
}
