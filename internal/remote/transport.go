package remote

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transport decorates every outbound request with the caller identity and a
// request ID, then records timing. It mirrors what the hosting application's
// request interceptor did in front of the registry.
type transport struct {
	base     http.RoundTripper
	identity func() string
	logger   *zap.Logger
	metrics  RequestObserver
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.identity != nil {
		if username := t.identity(); username != "" {
			req.Header.Set("X-User-Name", username)
		}
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if t.metrics != nil {
		t.metrics.ObserveRemoteRequest(req.Method, req.URL.Path, status, duration)
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", status),
		zap.Duration("latency", duration),
	}
	if err != nil {
		t.logger.Warn("remote_request_failed", append(fields, zap.Error(err))...)
	} else {
		t.logger.Debug("remote_request", fields...)
	}

	return resp, err
}
