package policyqa

import (
	"context"
	"net/http"
	"time"
)

// Health returns the server health report. A degraded server answers 503 with
// a report; that report is returned without an error.
func (c *Client) Health(ctx context.Context) (_ HealthResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	var report HealthResponse
	if err = c.do(ctx, http.MethodGet, "/health", nil, &report, http.StatusServiceUnavailable); err != nil {
		return HealthResponse{}, err
	}
	return report, nil
}
