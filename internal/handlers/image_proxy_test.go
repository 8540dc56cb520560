// internal/handlers/image_proxy_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyImageRequiresURL(t *testing.T) {
	h := NewImageProxyHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/image-proxy", nil)
	rec := httptest.NewRecorder()
	h.ProxyImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProxyImageRejectsForeignHosts(t *testing.T) {
	h := NewImageProxyHandler()

	urls := []string{
		"https://evil.example.com/image.png",
		"http://localhost:8080/internal",
		"https://example.com/?decoy=fal.media",
	}

	for _, target := range urls {
		req := httptest.NewRequest(http.MethodGet, "/api/image-proxy?url="+url.QueryEscape(target), nil)
		rec := httptest.NewRecorder()
		h.ProxyImage(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "url %q should be blocked", target)
	}
}
