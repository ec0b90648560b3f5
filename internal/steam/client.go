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
	"strconv"
	"strings"
	"time"

	"steamsync-api/internal/cache"
	"steamsync-api/internal/metrics"
)

const maxBodyBytes = 32 << 20

// Endpoint labels used for metrics and logs.
const (
	endpointPlayerSummaries = "player_summaries"
	endpointAppDetails      = "app_details"
	endpointInventory       = "inventory"
)

// Config holds the upstream endpoints and limits.
type Config struct {
	APIKey       string
	APIBaseURL   string
	StoreBaseURL string
	CommunityURL string
	Timeout      time.Duration
	GameCacheTTL time.Duration
}

// Client talks to the Steam Web API, the store and the community inventory.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   cache.Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache enables caching of game details.
func WithCache(cc cache.Cache) Option {
	return func(c *Client) { c.cache = cc }
}

// WithMetrics records upstream calls.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Steam client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.StoreBaseURL = strings.TrimRight(cfg.StoreBaseURL, "/")
	cfg.CommunityURL = strings.TrimRight(cfg.CommunityURL, "/")

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProfile returns the player summary for steamID.
func (c *Client) FetchProfile(ctx context.Context, steamID string) (*ProfileSnapshot, error) {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("steamids", steamID)
	q.Set("format", "json")
	endpoint := c.cfg.APIBaseURL + "/ISteamUser/GetPlayerSummaries/v0002/?" + q.Encode()

	start := time.Now()
	status, body, err := c.get(ctx, endpoint)
	if err != nil {
		c.metrics.ObserveUpstream(endpointPlayerSummaries, "unreachable", start)
		return nil, err
	}
	if !isSuccess(status) {
		c.metrics.ObserveUpstream(endpointPlayerSummaries, "unreachable", start)
		return nil, fmt.Errorf("%w: player summaries returned status %d", ErrUnreachable, status)
	}

	var resp playerSummariesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.ObserveUpstream(endpointPlayerSummaries, "malformed", start)
		return nil, malformed("player summaries", err)
	}

	if len(resp.Response.Players) == 0 {
		c.metrics.ObserveUpstream(endpointPlayerSummaries, "not_found", start)
		return nil, ErrProfileNotFound
	}

	c.metrics.ObserveUpstream(endpointPlayerSummaries, "ok", start)
	return normalizePlayer(steamID, resp.Response.Players[0]), nil
}

func normalizePlayer(requested string, p rawPlayer) *ProfileSnapshot {
	snap := &ProfileSnapshot{
		SteamID:      string(p.SteamID),
		Username:     p.PersonaName,
		ProfileURL:   p.ProfileURL,
		AvatarURL:    p.Avatar,
		PersonaState: p.PersonaState.Int(),
		Visibility:   p.Visibility.Int(),
		Country:      nonEmpty(p.LocCountryCode),
		GameName:     nonEmpty(p.GameExtraInfo),
	}
	if snap.SteamID == "" {
		snap.SteamID = requested
	}
	if p.TimeCreated != nil && *p.TimeCreated > 0 {
		snap.CreatedAt = time.Unix(int64(*p.TimeCreated), 0).UTC()
	}
	if p.GameID != nil && *p.GameID != "" {
		id := string(*p.GameID)
		snap.GameID = &id
	}
	return snap
}

// FetchGame returns store details for appID. Successful lookups are cached.
func (c *Client) FetchGame(ctx context.Context, appID string) (*GameSnapshot, error) {
	cacheKey := "steam:game:" + appID
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey); err == nil {
			var snap GameSnapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				return &snap, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("game cache read failed", "app_id", appID, "error", err)
		}
	}

	q := url.Values{}
	q.Set("appids", appID)
	endpoint := c.cfg.StoreBaseURL + "/api/appdetails?" + q.Encode()

	start := time.Now()
	status, body, err := c.get(ctx, endpoint)
	if err != nil {
		c.metrics.ObserveUpstream(endpointAppDetails, "unreachable", start)
		return nil, err
	}
	if !isSuccess(status) {
		c.metrics.ObserveUpstream(endpointAppDetails, "unreachable", start)
		return nil, fmt.Errorf("%w: app details returned status %d", ErrUnreachable, status)
	}

	var resp map[string]appDetailsEntry
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.ObserveUpstream(endpointAppDetails, "malformed", start)
		return nil, malformed("app details", err)
	}

	entry, ok := resp[appID]
	if !ok || !entry.Success || len(entry.Data) == 0 || string(entry.Data) == "null" {
		c.metrics.ObserveUpstream(endpointAppDetails, "not_found", start)
		return nil, ErrGameNotFound
	}

	var data rawAppData
	if err := json.Unmarshal(entry.Data, &data); err != nil {
		c.metrics.ObserveUpstream(endpointAppDetails, "malformed", start)
		return nil, malformed("app details data", err)
	}
	c.metrics.ObserveUpstream(endpointAppDetails, "ok", start)

	snap := &GameSnapshot{
		AppID:            appID,
		Name:             data.Name,
		ShortDescription: data.ShortDescription,
		HeaderImage:      data.HeaderImage,
		Screenshots:      make([]string, 0, len(data.Screenshots)),
	}
	for _, s := range data.Screenshots {
		if s.PathFull != "" {
			snap.Screenshots = append(snap.Screenshots, s.PathFull)
		}
	}

	if c.cache != nil && c.cfg.GameCacheTTL > 0 {
		if raw, err := json.Marshal(snap); err == nil {
			if err := c.cache.Set(ctx, cacheKey, raw, c.cfg.GameCacheTTL); err != nil {
				c.logger.Warn("game cache write failed", "app_id", appID, "error", err)
			}
		}
	}

	return snap, nil
}

// FetchInventory returns the community inventory of steamID for appID.
// Descriptions that fail to decode are listed in Rejected instead of failing the call.
func (c *Client) FetchInventory(ctx context.Context, steamID, appID string) (*InventorySnapshot, error) {
	contextID := ContextID(appID)

	q := url.Values{}
	q.Set("l", "english")
	q.Set("count", "2000")
	q.Set("preserve_bbcode", "1")
	q.Set("raw_asset_properties", "1")
	endpoint := fmt.Sprintf("%s/inventory/%s/%s/%d?%s",
		c.cfg.CommunityURL, url.PathEscape(steamID), url.PathEscape(appID), contextID, q.Encode())

	start := time.Now()
	status, body, err := c.get(ctx, endpoint)
	if err != nil {
		c.metrics.ObserveUpstream(endpointInventory, "unreachable", start)
		return nil, err
	}
	if status == http.StatusForbidden {
		c.metrics.ObserveUpstream(endpointInventory, "unavailable", start)
		return nil, fmt.Errorf("%w: inventory is private", ErrInventoryUnavailable)
	}
	if !isSuccess(status) {
		c.metrics.ObserveUpstream(endpointInventory, "unreachable", start)
		return nil, fmt.Errorf("%w: inventory returned status %d", ErrUnreachable, status)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		c.metrics.ObserveUpstream(endpointInventory, "unavailable", start)
		return nil, ErrInventoryUnavailable
	}

	var resp inventoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.ObserveUpstream(endpointInventory, "malformed", start)
		return nil, malformed("inventory", err)
	}
	if resp.Success != 1 {
		c.metrics.ObserveUpstream(endpointInventory, "unavailable", start)
		return nil, ErrInventoryUnavailable
	}
	c.metrics.ObserveUpstream(endpointInventory, "ok", start)

	snap := &InventorySnapshot{
		SteamID:    steamID,
		AppID:      appID,
		ContextID:  contextID,
		TotalCount: int64(resp.TotalInventoryCount),
		Items:      make([]InventoryItem, 0, len(resp.Descriptions)),
	}

	for i, raw := range resp.Descriptions {
		var d rawDescription
		if err := json.Unmarshal(raw, &d); err != nil {
			snap.Rejected = append(snap.Rejected, RejectedItem{Index: i, Err: malformed("description", err)})
			continue
		}
		if d.ClassID == "" {
			snap.Rejected = append(snap.Rejected, RejectedItem{
				Index: i,
				Err:   fmt.Errorf("%w: description without classid", ErrMalformedResponse),
			})
			continue
		}

		itemAppID := appID
		if d.AppID > 0 {
			itemAppID = strconv.FormatInt(int64(d.AppID), 10)
		}
		snap.Items = append(snap.Items, InventoryItem{
			AppID:     itemAppID,
			ClassID:   string(d.ClassID),
			IconURL:   d.IconURL,
			Name:      d.Name,
			NameColor: d.NameColor,
			Type:      d.Type,
			Fragments: d.Descriptions,
		})
	}

	return snap, nil
}

// get performs a bounded GET. Only transport failures return an error;
// status interpretation is left to the caller.
func (c *Client) get(ctx context.Context, endpoint string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrUnreachable, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrUnreachable, redact(err))
	}
	return resp.StatusCode, body, nil
}

// redact strips the request URL (which carries the API key) from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func malformed(what string, err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, what, err)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
