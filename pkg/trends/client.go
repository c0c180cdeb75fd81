package trends

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/text/language"

	"gtrends-go/pkg/logger"
)

const (
	DefaultBaseURL      = "https://trends.google.com"
	DefaultHostLanguage = "en-US"
	DefaultTZOffset     = 360

	explorePath      = "/trends/api/explore"
	multilinePath    = "/trends/api/widgetdata/multiline"
	comparedGeoPath  = "/trends/api/widgetdata/comparedgeo"
	autocompletePath = "/trends/api/autocomplete/"

	// hourlyWindow is the longest range the endpoint answers with hourly buckets.
	hourlyWindow = 7 * 24 * time.Hour
	hourlyLayout = "2006-01-02T15"
)

// Config configures the Trends client.
type Config struct {
	BaseURL      string           `mapstructure:"base_url"`
	HostLanguage string           `mapstructure:"host_language"`
	TZOffset     int              `mapstructure:"tz_offset"`
	Timeout      time.Duration    `mapstructure:"timeout"`
	MaxRetries   int              `mapstructure:"max_retries"`
	RetryDelay   time.Duration    `mapstructure:"retry_delay"`
	Connection   ConnectionConfig `mapstructure:"connection"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		HostLanguage: DefaultHostLanguage,
		TZOffset:     DefaultTZOffset,
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryDelay:   time.Second,
		Connection:   DefaultConnectionConfig(),
	}
}

// Client talks to the Trends web endpoints. Aside from the session cookie,
// which is fetched once, it keeps no per-request state.
type Client struct {
	baseURL string
	hl      string
	geo     string
	tz      string
	timeout time.Duration
	http    *fasthttp.Client
	retry   *Retry
	log     *logger.Logger

	mu            sync.Mutex
	cookie        string
	cookieFetched bool
}

var _ Provider = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces the fasthttp client built from Config.Connection.
func WithHTTPClient(hc *fasthttp.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient validates config and returns a ready client.
func NewClient(config Config, opts ...ClientOption) (*Client, error) {
	def := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.HostLanguage == "" {
		config.HostLanguage = def.HostLanguage
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = def.RetryDelay
	}

	tag, err := language.Parse(config.HostLanguage)
	if err != nil {
		return nil, fmt.Errorf("invalid host language %q: %w", config.HostLanguage, err)
	}
	region, conf := tag.Region()
	geo := "US"
	if conf != language.No {
		geo = region.String()
	}

	c := &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		hl:      tag.String(),
		geo:     geo,
		tz:      strconv.Itoa(config.TZOffset),
		timeout: config.Timeout,
		retry:   NewRetry(config.MaxRetries, config.RetryDelay),
		log:     logger.GetLogger().WithField("component", "trends_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(config.Connection)
	}
	return c, nil
}

// InterestByRegion fetches the GEO_MAP widget for payload at the requested
// resolution and returns one record per region.
func (c *Client) InterestByRegion(ctx context.Context, payload Payload, opts RegionOptions) ([]RegionRecord, error) {
	const op = "interest_by_region"

	widgets, err := c.explore(ctx, payload)
	if err != nil {
		return nil, err
	}
	w, ok := findWidget(widgets, widgetGeoMap)
	if !ok {
		return nil, &ProviderError{Op: op, Err: errors.New("explore response has no GEO_MAP widget")}
	}

	reqJSON, err := regionRequest(w.Request, payload.Geo, opts)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}

	body, err := c.get(ctx, op, fasthttp.MethodGet, comparedGeoPath, map[string]string{
		"hl":    c.hl,
		"tz":    c.tz,
		"req":   reqJSON,
		"token": w.Token,
	})
	if err != nil {
		return nil, err
	}

	records, err := decodeRegions(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}
	c.log.WithFields(map[string]interface{}{
		"keywords":   payload.Keywords,
		"geo":        payload.Geo,
		"resolution": opts.Resolution,
		"regions":    len(records),
	}).Debug("Interest by region fetched")
	return records, nil
}

// InterestOverTime fetches the TIMESERIES widget for payload.
func (c *Client) InterestOverTime(ctx context.Context, payload Payload) ([]TimelinePoint, error) {
	const op = "interest_over_time"

	widgets, err := c.explore(ctx, payload)
	if err != nil {
		return nil, err
	}
	w, ok := findWidget(widgets, widgetTimeseries)
	if !ok {
		return nil, &ProviderError{Op: op, Err: errors.New("explore response has no TIMESERIES widget")}
	}

	body, err := c.get(ctx, op, fasthttp.MethodGet, multilinePath, map[string]string{
		"hl":    c.hl,
		"tz":    c.tz,
		"req":   string(w.Request),
		"token": w.Token,
	})
	if err != nil {
		return nil, err
	}

	points, err := decodeTimeline(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}
	return points, nil
}

// HistoricalInterest collects hourly interest between req.Start and req.End
// by walking the range one week at a time.
func (c *Client) HistoricalInterest(ctx context.Context, req HistoricalRequest) ([]TimelinePoint, error) {
	start, end := req.Start.UTC(), req.End.UTC()
	if !end.After(start) {
		return nil, fmt.Errorf("%w: historical range end %s is not after start %s", ErrInvalidPayload, end.Format(hourlyLayout), start.Format(hourlyLayout))
	}

	var points []TimelinePoint
	for cur := start; cur.Before(end); {
		if err := ctx.Err(); err != nil {
			return nil, &ProviderError{Op: "historical_interest", Err: err}
		}
		next := cur.Add(hourlyWindow)
		if next.After(end) {
			next = end
		}

		timeframe := cur.Format(hourlyLayout) + " " + next.Format(hourlyLayout)
		payload, err := BuildPayload(req.Keywords, req.Geo,
			WithTimeframe(timeframe),
			WithCategory(req.Category),
			WithProperty(req.Property))
		if err != nil {
			return nil, err
		}

		window, err := c.InterestOverTime(ctx, payload)
		if err != nil {
			return nil, err
		}
		points = append(points, window...)
		c.log.WithFields(map[string]interface{}{
			"timeframe": timeframe,
			"points":    len(window),
		}).Debug("Hourly window fetched")

		cur = next
		if req.Sleep > 0 && cur.Before(end) {
			timer := time.NewTimer(req.Sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, &ProviderError{Op: "historical_interest", Err: ctx.Err()}
			case <-timer.C:
			}
		}
	}
	return points, nil
}

// Suggestions returns the autocomplete topics for keyword.
func (c *Client) Suggestions(ctx context.Context, keyword string) ([]Topic, error) {
	const op = "suggestions"

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrNoKeywords
	}

	body, err := c.get(ctx, op, fasthttp.MethodGet, autocompletePath+url.PathEscape(keyword), map[string]string{
		"hl": c.hl,
	})
	if err != nil {
		return nil, err
	}

	topics, err := decodeTopics(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}
	return topics, nil
}

func (c *Client) explore(ctx context.Context, payload Payload) ([]widget, error) {
	const op = "explore"

	reqJSON, err := payload.requestJSON()
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, op, fasthttp.MethodPost, explorePath, map[string]string{
		"hl":  c.hl,
		"tz":  c.tz,
		"req": reqJSON,
	})
	if err != nil {
		return nil, err
	}

	widgets, err := decodeWidgets(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}
	return widgets, nil
}

// get runs one request under the retry policy and always returns a
// *ProviderError on failure.
func (c *Client) get(ctx context.Context, op, method, path string, params map[string]string) ([]byte, error) {
	var body []byte
	err := c.retry.Execute(ctx, func() error {
		b, err := c.do(ctx, op, method, path, params)
		if err != nil {
			c.log.WithError(err).WithField("op", op).Debug("Trends request failed")
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			err = &ProviderError{Op: op, Err: err}
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, params map[string]string) ([]byte, error) {
	if err := c.ensureCookie(ctx); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	args := req.URI().QueryArgs()
	for k, v := range params {
		args.Add(k, v)
	}
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", c.hl)
	if cookie := c.sessionCookie(); cookie != "" {
		req.Header.SetCookie("NID", cookie)
	}

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &ProviderError{Op: op, StatusCode: resp.StatusCode(), Body: snippet(resp.Body())}
	}

	// resp is released on return
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// ensureCookie performs the NID cookie handshake once per client. A response
// without the cookie is accepted; the endpoints then answer anonymously.
func (c *Client) ensureCookie(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cookieFetched {
		return nil
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/")
	req.URI().QueryArgs().Add("geo", c.geo)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return &ProviderError{Op: "cookie", Err: fmt.Errorf("request failed: %w", err)}
	}
	if resp.StatusCode() >= 400 {
		return &ProviderError{Op: "cookie", StatusCode: resp.StatusCode(), Body: snippet(resp.Body())}
	}

	resp.Header.VisitAllCookie(func(key, value []byte) {
		if string(key) != "NID" {
			return
		}
		cookie := fasthttp.AcquireCookie()
		defer fasthttp.ReleaseCookie(cookie)
		if err := cookie.ParseBytes(value); err == nil {
			c.cookie = string(cookie.Value())
		}
	})
	c.cookieFetched = true
	c.log.WithField("has_cookie", c.cookie != "").Debug("Session cookie handshake done")
	return nil
}

func (c *Client) sessionCookie() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cookie
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}
