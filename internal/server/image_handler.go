package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/steadybroo69-afk/gym/internal/imaging"
)

// proxyAllowedHosts are the upstreams the image proxy will fetch from.
// Anything else is refused so the proxy cannot be used as an open relay.
var proxyAllowedHosts = []string{
	"customer-assets.emergentagent.com",
	"images.unsplash.com",
	"i.imgur.com",
	"cdn.shopify.com",
	"localhost",
	"127.0.0.1",
}

type ImageHandler struct {
	sanitizer *imaging.Sanitizer
	client    *http.Client
}

func NewImageHandler(sanitizer *imaging.Sanitizer) *ImageHandler {
	return &ImageHandler{
		sanitizer: sanitizer,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type SanitizeRequestDTO struct {
	URL string `json:"url"`
}

type SanitizeResponseDTO struct {
	URL string `json:"url"`
}

// Sanitize runs the alpha cleanup for one image and returns the URL to serve.
// On any pipeline failure the original URL comes back unchanged.
func (h *ImageHandler) Sanitize(w http.ResponseWriter, r *http.Request) {
	var req SanitizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "invalid_url", "url is required")
		return
	}

	served := h.sanitizer.Sanitize(r.Context(), req.URL)
	respondJSON(w, http.StatusOK, SanitizeResponseDTO{URL: served})
}

// Sanitized serves the cached cleaned PNG for a source URL.
func (h *ImageHandler) Sanitized(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("url")
	if src == "" {
		respondError(w, http.StatusBadRequest, "invalid_url", "url query parameter is required")
		return
	}

	data, ok := h.sanitizer.Bytes(src)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no sanitized image for this url")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Proxy fetches an allow-listed upstream image and relays it with permissive
// CORS headers, so the sanitizer and the storefront canvas can read pixels
// from hosts that block cross-origin requests.
func (h *ImageHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "invalid_url", "url query parameter is required")
		return
	}

	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		respondError(w, http.StatusBadRequest, "invalid_url", "url must be absolute http(s)")
		return
	}
	if !proxyHostAllowed(parsed.Hostname()) {
		respondError(w, http.StatusForbidden, "forbidden_host", "host is not on the proxy allow-list")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, raw, nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_url", "failed to build upstream request")
		return
	}
	resp, err := h.client.Do(req)
	if err != nil {
		respondError(w, http.StatusBadGateway, "upstream_failed", "failed to fetch upstream image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respondError(w, http.StatusBadGateway, "upstream_failed", "upstream returned a non-200 status")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, resp.Body)
}

func proxyHostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range proxyAllowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
