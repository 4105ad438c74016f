// Package client is a typed Go client for the cardtable JSON API,
// including the polling convergence loop used to follow a shared game.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ewhitmore/cardtable/internal/models"
)

// Game is the decoded shared-game response body.
type Game struct {
	GameID string                       `json:"game_id"`
	Cards  map[models.Suit]*models.Card `json:"cards"`
}

// drawResult is the solo draw response body.
type drawResult struct {
	Cards map[models.Suit]*models.Card `json:"cards"`
}

type apiError struct {
	Detail string `json:"detail"`
}

// APIError carries the server's status code and detail message.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// Client talks to one cardtable server.
type Client struct {
	base *url.URL
	http *http.Client
}

// New builds a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, out any) error {
	u := *c.base
	u.Path = path
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode >= 400 {
		var ae apiError
		_ = json.Unmarshal(body, &ae)
		if ae.Detail == "" {
			ae.Detail = strings.TrimSpace(string(body))
		}
		return &APIError{StatusCode: res.StatusCode, Detail: ae.Detail}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func suitQuery(suit string) string {
	if suit == "" {
		return ""
	}
	return "suit=" + url.QueryEscape(suit)
}

// Draw performs a solo draw: all suits when suit is empty, else one.
func (c *Client) Draw(ctx context.Context, suit string) (map[models.Suit]*models.Card, error) {
	var res drawResult
	if err := c.do(ctx, http.MethodGet, "/api/draw", suitQuery(suit), &res); err != nil {
		return nil, err
	}
	return res.Cards, nil
}

// CreateGame starts a fresh shared game with all suits unset.
func (c *Client) CreateGame(ctx context.Context) (*Game, error) {
	var g Game
	if err := c.do(ctx, http.MethodPost, "/api/games", "", &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGame fetches the current state of a shared game.
func (c *Client) GetGame(ctx context.Context, id string) (*Game, error) {
	var g Game
	if err := c.do(ctx, http.MethodGet, "/api/games/"+id, "", &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DrawGame draws into a shared game: all suits when suit is empty, else
// only the given suit.
func (c *Client) DrawGame(ctx context.Context, id, suit string) (*Game, error) {
	var g Game
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/draw", suitQuery(suit), &g); err != nil {
		return nil, err
	}
	return &g, nil
}
