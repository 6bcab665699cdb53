// Package proxy forwards edge requests to the owning service.
package proxy

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopswift/marketplace/services/common/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var hopByHop = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// Forwarder sends requests under one edge prefix to a service base URL.
type Forwarder struct {
	targetBase  string
	stripPrefix string
	client      *http.Client
}

// NewForwarder maps <stripPrefix><rest> to <targetBase><rest>.
func NewForwarder(targetBase, stripPrefix string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		targetBase:  strings.TrimSuffix(targetBase, "/"),
		stripPrefix: stripPrefix,
		client:      &http.Client{Timeout: timeout},
	}
}

func (f *Forwarder) Handle(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	targetURL := f.targetBase + strings.TrimPrefix(c.Request.URL.Path, f.stripPrefix)
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	body := c.Request.Body
	if c.Request.ContentLength == 0 {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, body)
	if err != nil {
		log.Error("Failed to build forward request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	req.ContentLength = c.Request.ContentLength
	copyHeaders(req.Header, c.Request.Header)
	if requestID := logger.RequestIDFrom(c.Request.Context()); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	req.Header.Set("X-Forwarded-For", c.ClientIP())

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("Failed to forward request", zap.String("url", targetURL), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Service unreachable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		lower := strings.ToLower(k)
		// CORS belongs to the edge.
		if hopByHop[lower] || strings.HasPrefix(lower, "access-control-") {
			continue
		}
		c.Writer.Header()[k] = v
	}
	c.Status(resp.StatusCode)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Warn("Failed to copy response body", zap.String("url", targetURL), zap.Error(err))
	}
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		if hopByHop[strings.ToLower(k)] {
			continue
		}
		dst[k] = append([]string(nil), v...)
	}
}
