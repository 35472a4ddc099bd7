package envelope

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvelope(t *testing.T, opts ...Option) *Envelope {
	t.Helper()
	e, err := New("shared-secret", opts...)
	require.NoError(t, err)
	return e
}

func TestNew_EmptyKey(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	e := newTestEnvelope(t)

	values := []any{
		map[string]any{"username": "alice", "password": "S3cret!pw"},
		map[string]any{"id": "a1", "isMain": true, "nested": map[string]any{"n": 3.5}},
		[]any{"x", 1.0, false},
		"plain string",
		42.0,
		true,
	}
	for _, v := range values {
		s, err := e.Seal(v)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(s, Prefix))

		raw, ok := e.Open(s)
		require.True(t, ok, "open %v", v)

		var got any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, v, got)
	}
}

func TestSeal_RandomNonce(t *testing.T) {
	e := newTestEnvelope(t)
	a, err := e.Seal(map[string]string{"k": "v"})
	require.NoError(t, err)
	b, err := e.Seal(map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_RejectsGarbage(t *testing.T) {
	e := newTestEnvelope(t)
	good, err := e.Seal(map[string]string{"k": "v"})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(good, Prefix))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := Prefix + base64.StdEncoding.EncodeToString(raw)

	inputs := map[string]string{
		"empty":        "",
		"no prefix":    strings.TrimPrefix(good, Prefix),
		"bad base64":   Prefix + "!!!not-base64!!!",
		"short":        Prefix + base64.StdEncoding.EncodeToString([]byte("abc")),
		"tampered tag": tampered,
		"random text":  "hello world",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			raw, ok := e.Open(in)
			assert.False(t, ok)
			assert.Nil(t, raw)
		})
	}
}

func TestOpen_WrongKey(t *testing.T) {
	sealer := newTestEnvelope(t)
	other, err := New("another-secret")
	require.NoError(t, err)

	s, err := sealer.Seal(map[string]string{"k": "v"})
	require.NoError(t, err)

	_, ok := other.Open(s)
	assert.False(t, ok)
}

func TestOpen_NullData(t *testing.T) {
	e := newTestEnvelope(t)
	s, err := e.Seal(nil)
	require.NoError(t, err)

	_, ok := e.Open(s)
	assert.False(t, ok)
}

func TestOpen_MaxAge(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	e := newTestEnvelope(t, WithMaxAge(5*time.Minute), WithClock(clock))

	s, err := e.Seal(map[string]string{"k": "v"})
	require.NoError(t, err)

	now = now.Add(4 * time.Minute)
	_, ok := e.Open(s)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = e.Open(s)
	assert.False(t, ok)
}

func TestUnseal_RejectsAlternateSpellings(t *testing.T) {
	e := newTestEnvelope(t)
	good, err := e.Seal(map[string]string{"k": "v"})
	require.NoError(t, err)

	opened, ok := e.Unseal(good)
	require.True(t, ok)
	assert.NotEmpty(t, opened.ID)

	again, ok := e.Unseal(good)
	require.True(t, ok)
	assert.Equal(t, opened.ID, again.ID)

	for name, in := range map[string]string{
		"newline":         good[:10] + "\n" + good[10:],
		"carriage return": good[:10] + "\r" + good[10:],
		"trailing crlf":   good + "\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := e.Unseal(in)
			assert.False(t, ok)
		})
	}
}

func TestUnseal_RejectsNonZeroPaddingBits(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	e := newTestEnvelope(t)

	tested := false
	for i := 0; i < 3; i++ {
		good, err := e.Seal(strings.Repeat("x", i))
		require.NoError(t, err)
		body := strings.TrimRight(good, "=")
		if body == good {
			continue
		}
		last := body[len(body)-1]
		idx := strings.IndexByte(alphabet, last)
		require.GreaterOrEqual(t, idx, 0)
		mutated := body[:len(body)-1] + string(alphabet[idx|1]) + good[len(body):]
		if mutated == good {
			continue
		}

		_, ok := e.Unseal(mutated)
		assert.False(t, ok, "mutated padding bits accepted: %s", mutated)
		tested = true
	}
	require.True(t, tested, "no sealed value needed padding")
}

func TestOpenInto(t *testing.T) {
	e := newTestEnvelope(t)
	type login struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	s, err := e.Seal(login{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	var got login
	require.True(t, e.OpenInto(s, &got))
	assert.Equal(t, "alice", got.Username)

	var wrongShape []int
	assert.False(t, e.OpenInto(s, &wrongShape))
}

func TestMemoryReplayGuard(t *testing.T) {
	g := NewMemoryReplayGuard()
	now := time.Unix(1_700_000_000, 0)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := g.Claim(ctx, "v1:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "v1:abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Claim(ctx, "v1:other", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = g.Claim(ctx, "v1:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
