// internal/handlers/image_proxy.go
package handlers

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "styleforge-backend/pkg/errors"
	"styleforge-backend/pkg/utils"
)

type ImageProxyHandler struct {
	httpClient *http.Client
}

func NewImageProxyHandler() *ImageProxyHandler {
	return &ImageProxyHandler{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProxyImage streams a provider-hosted result image so the frontend can
// fetch it without CORS issues. Only provider hosts are allowed.
func (h *ImageProxyHandler) ProxyImage(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"URL parameter is required",
		))
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || !strings.Contains(parsed.Host, "fal.media") {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrForbidden,
			http.StatusForbidden,
			"URL not allowed",
		))
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewUpstreamError("failed to build image request"))
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewUpstreamError("failed to fetch image"))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.SendErrorResponse(w, apperrors.NewUpstreamError("image fetch failed"))
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, resp.Body)
}
