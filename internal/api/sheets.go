package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/domain"
)

var (
	// ErrPersistence means the endpoint could not be reached or rejected the
	// request. Local state is left as it was.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoData is the endpoint saying it has nothing stored yet.
	ErrNoData = errors.New("no data found")
)

// maxRedirects bounds the hops followed for one request. Apps Script answers
// every call with a redirect to the content host.
const maxRedirects = 5

// SheetsClient talks to the spreadsheet web app (or this service's own
// /exec endpoint, which speaks the same protocol).
type SheetsClient struct {
	url           string
	client        *fasthttp.Client
	timeout       time.Duration
	fireAndForget bool
	logger        zerolog.Logger
}

func NewSheetsClient(cfg *config.Config, logger zerolog.Logger) *SheetsClient {
	return &SheetsClient{
		url: cfg.SheetsURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.SheetsTimeout,
			WriteTimeout:        cfg.SheetsTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		timeout:       cfg.SheetsTimeout,
		fireAndForget: cfg.FireAndForget,
		logger:        logger,
	}
}

type PostResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type StatsResponse struct {
	Stats []domain.HistoricalStatRow `json:"stats,omitempty"`
	Error string                     `json:"error,omitempty"`
}

type LineupResponse struct {
	Timestamp string         `json:"timestamp,omitempty"`
	Lineup    *domain.Lineup `json:"lineup,omitempty"`
	SavedBy   string         `json:"savedBy,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// SaveGameStats posts the end-of-game envelope.
func (c *SheetsClient) SaveGameStats(ctx context.Context, sub domain.GameSubmission) error {
	if err := c.post(ctx, sub); err != nil {
		return fmt.Errorf("save game stats: %w", err)
	}
	c.logger.Info().
		Int("players", len(sub.Stats.GameStats)).
		Time("game_date", sub.Stats.GameDate).
		Msg("game stats saved")
	return nil
}

func (c *SheetsClient) SaveLineup(ctx context.Context, sub domain.LineupSubmission) error {
	if err := c.post(ctx, sub); err != nil {
		return fmt.Errorf("save lineup: %w", err)
	}
	c.logger.Info().Int("slots", len(sub.Lineup.BattingLineup)).Msg("lineup saved")
	return nil
}

// LoadStats reads every historical row. An empty sheet is ErrNoData.
func (c *SheetsClient) LoadStats(ctx context.Context) ([]domain.HistoricalStatRow, error) {
	resp, err := doRequest[StatsResponse](ctx, c, fasthttp.MethodGet, c.endpoint(url.Values{"type": {"stats"}}), nil)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if resp.Error != "" {
		c.logger.Debug().Str("reason", resp.Error).Msg("stats sheet is empty")
		return nil, ErrNoData
	}
	return resp.Stats, nil
}

// LoadLineup reads the most recently saved lineup.
func (c *SheetsClient) LoadLineup(ctx context.Context) (*domain.LineupRecord, error) {
	resp, err := doRequest[LineupResponse](ctx, c, fasthttp.MethodGet, c.endpoint(nil), nil)
	if err != nil {
		return nil, fmt.Errorf("load lineup: %w", err)
	}
	if resp.Error != "" || resp.Lineup == nil {
		return nil, ErrNoData
	}

	record := &domain.LineupRecord{Lineup: *resp.Lineup, SavedBy: resp.SavedBy}
	if resp.Timestamp != "" {
		ts, err := domain.ParseTimestamp(resp.Timestamp)
		if err != nil {
			c.logger.Warn().Err(err).Str("timestamp", resp.Timestamp).Msg("unreadable lineup timestamp")
		} else {
			record.Timestamp = ts
		}
	}
	return record, nil
}

func (c *SheetsClient) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if c.fireAndForget {
		return c.send(ctx, fasthttp.MethodPost, c.url, body, nil)
	}

	resp, err := doRequest[PostResponse](ctx, c, fasthttp.MethodPost, c.url, body)
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("%w: %s", ErrPersistence, resp.Error)
	}
	return nil
}

func (c *SheetsClient) endpoint(query url.Values) string {
	if len(query) == 0 {
		return c.url
	}
	return c.url + "?" + query.Encode()
}

// send performs one request, following redirects. With a nil handle the
// response is not inspected at all, the way an opaque cross-origin POST
// behaves.
func (c *SheetsClient) send(ctx context.Context, method, uri string, body []byte, handle func(*fasthttp.Response) error) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	if body != nil {
		// text/plain keeps the Apps Script endpoint from requiring a preflight
		req.Header.SetContentType("text/plain;charset=utf-8")
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	for hops := 0; ; hops++ {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error().Err(err).Str("method", method).Str("url", req.URI().String()).Msg("spreadsheet request failed")
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		status := resp.StatusCode()
		if !fasthttp.StatusCodeIsRedirect(status) {
			break
		}
		if hops == maxRedirects {
			return fmt.Errorf("%w: more than %d redirects", ErrPersistence, maxRedirects)
		}
		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			return fmt.Errorf("%w: redirect %d without location", ErrPersistence, status)
		}

		req.URI().UpdateBytes(location)
		if status == fasthttp.StatusSeeOther || (status != fasthttp.StatusTemporaryRedirect && status != fasthttp.StatusPermanentRedirect && method == fasthttp.MethodPost) {
			method = fasthttp.MethodGet
			req.Header.SetMethod(method)
			req.Header.Del(fasthttp.HeaderContentType)
			req.ResetBody()
		}
		c.logger.Debug().Int("status", status).Str("location", req.URI().String()).Msg("following spreadsheet redirect")
	}

	if handle == nil {
		return nil
	}
	return handle(resp)
}

func doRequest[T any](ctx context.Context, client *SheetsClient, method, uri string, body []byte) (*T, error) {
	var result T
	err := client.send(ctx, method, uri, body, func(resp *fasthttp.Response) error {
		if resp.StatusCode() != fasthttp.StatusOK {
			return fmt.Errorf("%w: endpoint returned %d", ErrPersistence, resp.StatusCode())
		}
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
