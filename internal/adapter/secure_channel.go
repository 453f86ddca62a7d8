package adapter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cryptguard/cryptguard/internal/config"
	"github.com/cryptguard/cryptguard/internal/utils"
	"github.com/go-resty/resty/v2"
)

const (
	headerRequestNonce     = "X-Request-Nonce"
	headerRequestTimestamp = "X-Request-Timestamp"
	headerContentChecksum  = "X-Content-Checksum"
	headerRequestSignature = "X-Request-Signature"
)

// installSecureChannel registers a request hook that attaches the outbound
// SecureChannel headers for whichever mechanisms cfg enables. The hook runs
// before resty marshals the body, so the checksum is computed over the same
// JSON serialization resty will send.
func installSecureChannel(client *resty.Client, cfg config.ClientAdapter) {
	if !cfg.ReplayProtection && !cfg.ContentIntegrity && !cfg.RequestSigning {
		return
	}

	nonces := utils.NewUUIDGenerator()

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

		if cfg.ReplayProtection {
			req.SetHeader(headerRequestNonce, nonces.Generate())
			req.SetHeader(headerRequestTimestamp, timestamp)
		}

		var checksum string
		if cfg.ContentIntegrity && req.Method != http.MethodGet {
			raw, err := serializeBody(req.Body)
			if err != nil {
				return fmt.Errorf("checksum request body: %w", err)
			}
			sum := sha256.Sum256(raw)
			checksum = hex.EncodeToString(sum[:])
			req.SetHeader(headerContentChecksum, checksum)
		}

		if cfg.RequestSigning {
			// The signature covers the timestamp, so it must travel even
			// when the replay guard is switched off.
			req.SetHeader(headerRequestTimestamp, timestamp)
			payload := fmt.Sprintf("%s\n%s\n%s\n%s", req.Method, requestPath(req.URL), timestamp, checksum)
			req.SetHeader(headerRequestSignature, signHMAC(payload, cfg.HashKey))
		}

		return nil
	})
}

// serializeBody reproduces the bytes resty will put on the wire for the
// request body. Structured bodies go through the same encoding/json marshal
// resty uses.
func serializeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return json.Marshal(b)
	}
}

// requestPath extracts the URL path the server will see. At hook time the
// request URL is still the relative path passed to the verb method.
func requestPath(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return u.Path
	}
	return raw
}

func signHMAC(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
