package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"gtrends-go/internal/service"
	"gtrends-go/pkg/chart"
	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

// TrendsService is the part of service.Service the HTTP surface uses.
type TrendsService interface {
	QueryRegions(ctx context.Context, q service.RegionQuery) (*interest.Table, error)
	HourlyInterest(ctx context.Context, req trends.HistoricalRequest) ([]trends.TimelinePoint, error)
	PlotTermFreq(keyword string, table *interest.Table) (*chart.Figure, error)
	RelatedTerms(ctx context.Context, keyword string) ([]service.RelatedTerm, error)
}

type Controller struct {
	svc     TrendsService
	log     *logger.Logger
	started time.Time
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type HourlyResponse struct {
	Keywords []string               `json:"keywords"`
	Points   []trends.TimelinePoint `json:"points"`
}

type RelatedResponse struct {
	Keyword string                `json:"keyword"`
	Terms   []service.RelatedTerm `json:"terms"`
}

func NewController(svc TrendsService, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Controller{
		svc:     svc,
		log:     log.WithField("component", "http"),
		started: time.Now(),
	}
}

// Register mounts every route on app.
func (h *Controller) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	v1 := app.Group("/api/v1")
	v1.Get("/interest", h.Interest)
	v1.Get("/chart", h.Chart)
	v1.Get("/hourly", h.Hourly)
	v1.Get("/related", h.Related)
}

// Health handles GET /health.
func (h *Controller) Health(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

// Interest handles GET /api/v1/interest.
func (h *Controller) Interest(c *fiber.Ctx) error {
	q, err := regionQuery(c)
	if err != nil {
		return err
	}
	format, err := interest.ParseFormat(c.Query("format", string(interest.FormatJSON)))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	table, err := h.svc.QueryRegions(c.UserContext(), q)
	if err != nil {
		return err
	}

	if format == interest.FormatJSON {
		return c.JSON(table)
	}
	var buf bytes.Buffer
	if err := table.Write(&buf, format); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, tableContentType(format))
	return c.Send(buf.Bytes())
}

// Chart handles GET /api/v1/chart. The figure is rendered in memory and
// returned as an image.
func (h *Controller) Chart(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "keyword is required")
	}
	format, err := chart.ParseRenderFormat(c.Query("format", "png"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	q, err := regionQuery(c)
	if err != nil && !errors.Is(err, trends.ErrNoKeywords) {
		return err
	}
	if len(q.Keywords) == 0 {
		q.Keywords = []string{keyword}
	}

	table, err := h.svc.QueryRegions(c.UserContext(), q)
	if err != nil {
		return err
	}
	fig, err := h.svc.PlotTermFreq(keyword, table)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := fig.Render(&buf, format); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, imageContentType(format))
	return c.Send(buf.Bytes())
}

// Hourly handles GET /api/v1/hourly.
func (h *Controller) Hourly(c *fiber.Ctx) error {
	keywords := splitKeywords(c.Query("keywords"))
	if len(keywords) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, trends.ErrNoKeywords.Error())
	}
	start, err := trends.ParseTime(c.Query("start"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start: "+err.Error())
	}
	end, err := trends.ParseTime(c.Query("end"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end: "+err.Error())
	}
	var sleep time.Duration
	if s := c.Query("sleep"); s != "" {
		if sleep, err = time.ParseDuration(s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "sleep: "+err.Error())
		}
	}

	points, err := h.svc.HourlyInterest(c.UserContext(), trends.HistoricalRequest{
		Keywords: keywords,
		Start:    start,
		End:      end,
		Geo:      strings.ToUpper(c.Query("geo")),
		Category: c.QueryInt("category", 0),
		Property: c.Query("property"),
		Sleep:    sleep,
	})
	if err != nil {
		return err
	}
	return c.JSON(HourlyResponse{Keywords: keywords, Points: points})
}

// Related handles GET /api/v1/related.
func (h *Controller) Related(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "keyword is required")
	}

	terms, err := h.svc.RelatedTerms(c.UserContext(), keyword)
	if err != nil {
		return err
	}
	return c.JSON(RelatedResponse{Keyword: keyword, Terms: terms})
}

// regionQuery reads the shared interest-by-region parameters. A missing
// keyword list is reported as trends.ErrNoKeywords so callers may default it.
func regionQuery(c *fiber.Ctx) (service.RegionQuery, error) {
	q := service.RegionQuery{
		Keywords:         splitKeywords(c.Query("keywords")),
		Country:          c.Query("country"),
		Timeframe:        c.Query("timeframe"),
		Category:         c.QueryInt("category", 0),
		IncludeLowVolume: c.QueryBool("low_volume", false),
		IncludeGeoCode:   c.QueryBool("geo_code", false),
	}
	if r := c.Query("resolution"); r != "" {
		res, err := trends.ParseResolution(r)
		if err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		q.Resolution = res
	}
	if len(q.Keywords) == 0 {
		return q, trends.ErrNoKeywords
	}
	return q, nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func tableContentType(format interest.Format) string {
	switch format {
	case interest.FormatCSV:
		return "text/csv; charset=utf-8"
	case interest.FormatYAML:
		return "application/yaml"
	case interest.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return fiber.MIMETextPlainCharsetUTF8
}

func imageContentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "eps":
		return "application/postscript"
	case "tif", "tiff":
		return "image/tiff"
	}
	return "image/png"
}
