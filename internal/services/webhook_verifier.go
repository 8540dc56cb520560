// internal/services/webhook_verifier.go
package services

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	apperrors "styleforge-backend/pkg/errors"
)

// MaxTimestampSkew is the webhook freshness window; older (or future-dated)
// callbacks are rejected as replays regardless of signature validity.
const MaxTimestampSkew = 300 * time.Second

const jwksCacheTTL = 24 * time.Hour

// WebhookHeaders are the provider-supplied authentication headers.
type WebhookHeaders struct {
	RequestID string
	UserID    string
	Timestamp string
	Signature string
}

// WebhookHeadersFromRequest pulls the provider headers off an inbound call.
func WebhookHeadersFromRequest(r *http.Request) WebhookHeaders {
	return WebhookHeaders{
		RequestID: r.Header.Get("X-Fal-Webhook-Request-Id"),
		UserID:    r.Header.Get("X-Fal-Webhook-User-Id"),
		Timestamp: r.Header.Get("X-Fal-Webhook-Timestamp"),
		Signature: r.Header.Get("X-Fal-Webhook-Signature"),
	}
}

// WebhookVerifier authenticates provider callbacks against the provider's
// published ed25519 key set.
type WebhookVerifier struct {
	jwksURL    string
	httpClient *http.Client

	mu        sync.Mutex
	keys      []ed25519.PublicKey
	fetchedAt time.Time

	now func() time.Time
}

func NewWebhookVerifier(jwksURL string) *WebhookVerifier {
	return &WebhookVerifier{
		jwksURL: jwksURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Verify checks header completeness, timestamp freshness, and the ed25519
// signature over requestId "\n" userId "\n" timestamp "\n" hex(sha256(body)).
func (v *WebhookVerifier) Verify(ctx context.Context, hdr WebhookHeaders, body []byte) error {
	if hdr.RequestID == "" || hdr.UserID == "" || hdr.Timestamp == "" || hdr.Signature == "" {
		return apperrors.NewInvalidSignatureError("missing webhook headers")
	}

	ts, err := strconv.ParseInt(hdr.Timestamp, 10, 64)
	if err != nil {
		return apperrors.NewInvalidSignatureError("invalid webhook timestamp")
	}
	skew := math.Abs(float64(v.now().Unix() - ts))
	if time.Duration(skew)*time.Second > MaxTimestampSkew {
		return apperrors.NewInvalidSignatureError("webhook timestamp outside freshness window")
	}

	sig, err := hex.DecodeString(hdr.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return apperrors.NewInvalidSignatureError("invalid webhook signature encoding")
	}

	bodyHash := sha256.Sum256(body)
	message := []byte(fmt.Sprintf("%s\n%s\n%s\n%s",
		hdr.RequestID, hdr.UserID, hdr.Timestamp, hex.EncodeToString(bodyHash[:])))

	keys, err := v.publicKeys(ctx)
	if err != nil {
		return apperrors.NewUpstreamError("failed to fetch provider key set: " + err.Error())
	}

	for _, key := range keys {
		if ed25519.Verify(key, message, sig) {
			return nil
		}
	}
	return apperrors.NewInvalidSignatureError("webhook signature verification failed")
}

// publicKeys returns the cached key set, refreshing it when empty or older
// than the cache TTL. A fetch failure only fails the current request; the
// next call retries.
func (v *WebhookVerifier) publicKeys(ctx context.Context) ([]ed25519.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.keys) > 0 && v.now().Sub(v.fetchedAt) < jwksCacheTTL {
		return v.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kty string `json:"kty"`
			Crv string `json:"crv"`
			X   string `json:"x"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make([]ed25519.PublicKey, 0, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.X == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			continue
		}
		keys = append(keys, ed25519.PublicKey(raw))
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("JWKS contained no usable keys")
	}

	v.keys = keys
	v.fetchedAt = v.now()
	return v.keys, nil
}
