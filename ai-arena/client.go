package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// backendClient drives the game backend over its HTTP API.
type backendClient struct {
	http    *http.Client
	baseURL string
}

type statusResponse struct {
	GameID    string            `json:"game_id"`
	Status    string            `json:"status"`
	Winner    int               `json:"winner"`
	History   []json.RawMessage `json:"history"`
	BoardSize int               `json:"board_size"`
}

type openingMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func newBackendClient(baseURL string, timeout time.Duration) *backendClient {
	return &backendClient{http: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (c *backendClient) ping(ctx context.Context) error {
	var out map[string]bool
	if err := c.getJSON(ctx, "/api/ping", &out); err != nil {
		return err
	}
	if !out["ok"] {
		return fmt.Errorf("ping: backend not ready")
	}
	return nil
}

func (c *backendClient) waitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := c.ping(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("backend not ready after %s: %w", timeout, err)
		}
		if !sleepWithContext(ctx, time.Second) {
			return ctx.Err()
		}
	}
}

func (c *backendClient) fetchStatus(ctx context.Context) (statusResponse, error) {
	var status statusResponse
	if err := c.getJSON(ctx, "/api/status", &status); err != nil {
		return statusResponse{}, err
	}
	return status, nil
}

func (c *backendClient) stopGame(ctx context.Context) error {
	return c.postJSON(ctx, "/api/stop", map[string]any{}, nil)
}

// startSeededGame plays opening as a human game and then hands both colors
// to the named engines.
func (c *backendClient) startSeededGame(ctx context.Context, opening []openingMove, black, white string) error {
	if err := c.postJSON(ctx, "/api/start", map[string]any{
		"settings": map[string]any{"mode": "human_vs_human", "human_player": 1},
	}, nil); err != nil {
		return err
	}
	for _, move := range opening {
		if err := c.postJSON(ctx, "/api/move", move, nil); err != nil {
			return err
		}
	}
	return c.postJSON(ctx, "/api/settings", map[string]any{
		"settings": map[string]any{
			"mode":         "ai_vs_ai",
			"black_engine": black,
			"white_engine": white,
		},
	}, nil)
}

func (c *backendClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *backendClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("POST %s: encode: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *backendClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s -> %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
