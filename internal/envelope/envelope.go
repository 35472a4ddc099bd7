// Package envelope seals request bodies under a pre-shared key. It hides
// payloads from casual inspection only; anyone holding the key can read and
// forge them.
package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Prefix marks the cipher string format version.
const Prefix = "v1:"

const keyInfo = "newsroom envelope v1"

// ErrEmptyKey is returned by New when no shared key is configured.
var ErrEmptyKey = errors.New("envelope: shared key is empty")

// Envelope seals and opens JSON values. It is safe for concurrent use.
type Envelope struct {
	aead   cipher.AEAD
	maxAge time.Duration
	now    func() time.Time
}

// Option configures an Envelope.
type Option func(*Envelope)

// WithMaxAge rejects payloads sealed longer than d ago. Zero disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(e *Envelope) { e.maxAge = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Envelope) { e.now = now }
}

type sealed struct {
	IssuedAt int64           `json:"iat"`
	Data     json.RawMessage `json:"data"`
}

// New derives an AES-256 key from the shared key with HKDF-SHA256.
func New(key string, opts ...Option) (*Envelope, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	derived := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(key), nil, []byte(keyInfo)), derived); err != nil {
		return nil, fmt.Errorf("envelope: derive key: %w", err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("envelope: creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("envelope: creating GCM: %w", err)
	}

	e := &Envelope{aead: aead, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MaxAge returns the configured freshness window.
func (e *Envelope) MaxAge() time.Duration {
	return e.maxAge
}

// Seal serializes v and returns its cipher string.
func (e *Envelope) Seal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("envelope: marshal: %w", err)
	}
	plain, err := json.Marshal(sealed{IssuedAt: e.now().Unix(), Data: data})
	if err != nil {
		return "", fmt.Errorf("envelope: marshal: %w", err)
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("envelope: generating nonce: %w", err)
	}

	out := e.aead.Seal(nonce, nonce, plain, nil)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Opened is a successfully opened payload.
type Opened struct {
	Data json.RawMessage
	// ID is the decoded nonce and ciphertext. Every accepted spelling of a
	// cipher string yields the same ID, so replay guards key on it.
	ID string
}

// Open returns the sealed value as raw JSON. Any malformed, tampered or stale
// input reports false; Open never panics on caller input.
func (e *Envelope) Open(s string) (json.RawMessage, bool) {
	opened, ok := e.Unseal(s)
	if !ok {
		return nil, false
	}
	return opened.Data, true
}

// Unseal is Open plus the payload's canonical ID.
func (e *Envelope) Unseal(s string) (Opened, bool) {
	rest, ok := strings.CutPrefix(s, Prefix)
	if !ok || strings.ContainsAny(rest, "\r\n") {
		return Opened{}, false
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(rest)
	if err != nil {
		return Opened{}, false
	}

	size := e.aead.NonceSize()
	if len(raw) < size+e.aead.Overhead() {
		return Opened{}, false
	}
	plain, err := e.aead.Open(nil, raw[:size], raw[size:], nil)
	if err != nil {
		return Opened{}, false
	}

	var msg sealed
	if err := json.Unmarshal(plain, &msg); err != nil {
		return Opened{}, false
	}
	if len(msg.Data) == 0 || bytes.Equal(msg.Data, []byte("null")) {
		return Opened{}, false
	}
	if e.maxAge > 0 {
		age := e.now().Sub(time.Unix(msg.IssuedAt, 0))
		// small negative ages tolerate clock skew between client and server
		if age > e.maxAge || age < -e.maxAge {
			return Opened{}, false
		}
	}
	return Opened{Data: msg.Data, ID: string(raw)}, true
}

// OpenInto opens s and decodes the value into dst.
func (e *Envelope) OpenInto(s string, dst any) bool {
	data, ok := e.Open(s)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}
