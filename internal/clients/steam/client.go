package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"golang.org/x/time/rate"
)

const (
	defaultBase = "https://api.steampowered.com"

	summariesPath = "/ISteamUser/GetPlayerSummaries/v0002/"

	// MaxIDsPerRequest is the upstream limit for one GetPlayerSummaries call
	MaxIDsPerRequest = 100

	maxAvatarBytes = 4 << 20
)

type Client struct {
	keys    []string
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
	logger  *slog.Logger

	mu      sync.Mutex
	current int
}

func New(keys []string, opts ...Option) (*Client, error) {
	var cleaned []string
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoAPIKeys
	}

	c := &Client{
		keys:    cleaned,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBase,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchPlayers returns the current summaries for ids, batched by MaxIDsPerRequest.
// Each batch fails over across the configured keys. Batches that fail with every
// key are left out of the result and reported as ErrUpstreamUnavailable alongside
// the players that were fetched.
func (c *Client) FetchPlayers(ctx context.Context, ids []string) ([]*models.PlayerState, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var players []*models.PlayerState
	var errs []error
	for start := 0; start < len(ids); start += MaxIDsPerRequest {
		end := min(start+MaxIDsPerRequest, len(ids))

		batch, err := c.fetchBatch(ctx, ids[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return players, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		players = append(players, batch...)
	}

	if len(errs) > 0 {
		return players, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, errors.Join(errs...))
	}
	return players, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []string) ([]*models.PlayerState, error) {
	var errs []error
	for attempt := 0; attempt < len(c.keys); attempt++ {
		idx, key := c.key()

		var dto playerSummariesDTO
		err := c.doJSON(ctx, summariesPath, url.Values{
			"key":      {key},
			"steamids": {strings.Join(ids, ",")},
		}, &dto)
		if err == nil {
			return toPlayers(dto.Response.Players), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.logger.Warn("steam api request failed, trying next key",
			"key_index", idx,
			"batch_size", len(ids),
			"err", err)
		errs = append(errs, err)
		c.rotate(idx)
	}

	return nil, errors.Join(errs...)
}

// FetchAvatar downloads an avatar image
func (c *Client) FetchAvatar(ctx context.Context, avatarURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, fmt.Errorf("steam avatar request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam avatar http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	return io.ReadAll(io.LimitReader(res.Body, maxAvatarBytes))
}

func (c *Client) doJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("steam request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("steam http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) key() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.keys[c.current]
}

// rotate moves past a failing key unless another request already did
func (c *Client) rotate(failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == failed {
		c.current = (c.current + 1) % len(c.keys)
	}
}

func toPlayers(dtos []playerDTO) []*models.PlayerState {
	players := make([]*models.PlayerState, 0, len(dtos))
	for _, d := range dtos {
		p := &models.PlayerState{
			SteamID:      d.SteamID,
			Name:         d.PersonaName,
			PersonaState: models.PersonaState(d.PersonaState),
			AvatarURL:    d.AvatarFull,
			AvatarHash:   d.AvatarHash,
			ProfileURL:   d.ProfileURL,
		}
		if d.GameExtraInfo != "" {
			p.Game = &models.Game{ID: d.GameID, Name: d.GameExtraInfo}
		}
		if d.LastLogoff > 0 {
			t := time.Unix(d.LastLogoff, 0).UTC()
			p.LastLogoff = &t
		}
		players = append(players, p)
	}
	return players
}

// KeyCount is the number of usable API keys
func (c *Client) KeyCount() int {
	return len(c.keys)
}
