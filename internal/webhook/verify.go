package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSecret    = errors.New("invalid webhook secret")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"

	secretPrefix = "whsec_"
	// 时间戳容忍窗口: rejects both stale deliveries and clock-skewed ones
	timestampTolerance = 5 * time.Minute
)

// Headers carries the three signature headers of one delivery.
type Headers struct {
	ID        string
	Timestamp string
	Signature string
}

// Verifier checks the provider's HMAC-SHA256 signature scheme: the signed
// content is "id.timestamp.body" and the signature header holds one or more
// space-separated "v1,<base64>" entries.
type Verifier struct {
	key []byte
	now func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	raw, ok := strings.CutPrefix(secret, secretPrefix)
	if !ok || raw == "" {
		return nil, ErrInvalidSecret
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrInvalidSecret
	}
	return &Verifier{key: key, now: time.Now}, nil
}

// Verify returns nil only when headers are complete, the timestamp is inside
// the tolerance window and at least one signature entry matches. The caller
// must not dispatch the payload on error.
func (v *Verifier) Verify(h Headers, body []byte) error {
	if h.ID == "" || h.Timestamp == "" || h.Signature == "" {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(h.Timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	delta := v.now().Sub(time.Unix(ts, 0))
	if delta > timestampTolerance || delta < -timestampTolerance {
		return ErrInvalidSignature
	}

	expected := v.sign(h.ID, h.Timestamp, body)
	for _, entry := range strings.Fields(h.Signature) {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces the "v1,<base64>" entry for a delivery. Production payloads
// are signed by the provider; this backs local tooling and tests.
func (v *Verifier) Sign(id, timestamp string, body []byte) string {
	return "v1," + v.sign(id, timestamp, body)
}

func (v *Verifier) sign(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
