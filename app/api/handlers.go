package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/cfg"
	"github.com/titouancv/linkedin-scrapper/app/feed"
)

// NewHandler builds the HTTP handlers. scorer may be nil when popularity
// scoring is disabled.
func NewHandler(topics *catalog.Catalog, scorer *catalog.Scorer, assembler FeedAssembler, searcher TopicSearcher) *Handler {
	return &Handler{
		catalog:   topics,
		scorer:    scorer,
		assembler: assembler,
		searcher:  searcher,
		generator: feed.NewGenerator(),
	}
}

func (h *Handler) ListSubjects(c *gin.Context) {
	subjects := h.catalog.ListWithPopularity(c.Request.Context(), h.scorer)

	c.JSON(http.StatusOK, gin.H{
		"subjects": subjects,
		"total":    len(subjects),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	topic := c.Param("topic")
	cursor := intQuery(c, "cursor", 0)
	limit := intQuery(c, "limit", feed.DefaultLimit)

	page := h.assembler.Run(c.Request.Context(), topic, cursor, limit)

	c.JSON(http.StatusOK, page)
}

func (h *Handler) SearchTopic(c *gin.Context) {
	slug := c.Param("topic")
	offset := intQuery(c, "offset", 1)

	page := h.searcher.Run(c.Request.Context(), h.catalog.DisplayName(slug), offset)

	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetRSS(c *gin.Context) {
	slug := c.Param("topic")
	topic := h.catalog.Resolve(slug)

	page := h.assembler.Run(c.Request.Context(), slug, 0, feed.MaxLimit)

	rss, err := h.generator.Run(topic, page.Items)
	if err != nil {
		slog.Error("RSS generation error", "topic", slug, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(page.Items)))
	c.Header("X-Feed-Topic", slug)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().In(time.Local).Format(time.RFC3339),
		"topics":      h.catalog.Count(),
		"feed_source": cfg.Get().FeedSource,
		"popularity":  h.scorer != nil,
		"version":     cfg.Get().Version,
	})
}

// intQuery reads an integer query parameter; missing or malformed values
// fall back to def.
func intQuery(c *gin.Context, name string, def int) int {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Debug("Ignoring malformed query parameter", "param", name, "value", raw)
		return def
	}
	return value
}
