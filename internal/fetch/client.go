package fetch

import (
	"net/http"
	"time"

	"github.com/specialistvlad/solforge/internal/config"
)

// NewClient returns an HTTP client for artifact downloads. Timeouts are
// applied per request through the context, not on the client, so that a
// zero timeout really means "none".
func NewClient(settings config.FetchSettings) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: max(settings.Concurrency, 2),
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
