// Package abuse provides the in-process anti-abuse controls for ad serving:
// signed viewability tokens and time-windowed click deduplication.
package abuse

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// ViewabilityCodec issues and validates signed, time-bound viewability
// tokens. A token proves an ad was displayed long enough for a subsequent
// click to count as legitimate. Tokens are `impressionId|issuedAtMs|hmac`
// with an HMAC-SHA256 signature over the first two fields.
//
// Validation does not consume a token; replay within the dedupe window is
// blocked separately by the Guard.
type ViewabilityCodec struct {
	secret     []byte
	minDisplay time.Duration
	now        func() time.Time
}

// NewViewabilityCodec creates a codec bound to the server secret and the
// configured minimum dwell time.
func NewViewabilityCodec(secret string, minDisplay time.Duration) *ViewabilityCodec {
	return &ViewabilityCodec{
		secret:     []byte(secret),
		minDisplay: minDisplay,
		now:        time.Now,
	}
}

// Issue creates a token for an impression at the current time.
func (c *ViewabilityCodec) Issue(impressionID string) string {
	return c.IssueAt(impressionID, c.now())
}

// IssueAt creates a token with an explicit issue time. Deterministic given
// inputs and the server secret.
func (c *ViewabilityCodec) IssueAt(impressionID string, issuedAt time.Time) string {
	ts := strconv.FormatInt(issuedAt.UnixMilli(), 10)
	return impressionID + "|" + ts + "|" + c.sign(impressionID, ts)
}

// Validate reports whether a token is authentic and old enough to satisfy
// the minimum display time. It fails closed: malformed input, a bad
// signature, or a too-young token all return false. A click arriving before
// the ad could plausibly have been seen is rejected here.
func (c *ViewabilityCodec) Validate(token string) bool {
	parts := strings.Split(token, "|")
	if len(parts) != 3 {
		return false
	}
	impressionID, ts, mac := parts[0], parts[1], parts[2]

	issuedAtMs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}

	expect := c.sign(impressionID, ts)
	if !hmac.Equal([]byte(expect), []byte(mac)) {
		return false
	}

	elapsed := c.now().Sub(time.UnixMilli(issuedAtMs))
	return elapsed >= c.minDisplay
}

func (c *ViewabilityCodec) sign(impressionID, ts string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(impressionID + "|" + ts))
	return hex.EncodeToString(h.Sum(nil))
}
