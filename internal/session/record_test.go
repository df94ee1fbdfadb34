package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	t.Parallel()

	codec := JSONCodec{}
	rec := Record{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "user", AvatarURL: "/static/a.png"}

	t.Run("round trip", func(t *testing.T) {
		encoded, err := codec.Encode(rec)
		require.NoError(t, err)

		decoded, err := codec.Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, rec, decoded)
	})

	t.Run("malformed payloads", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"   ",
			"not json",
			"{",
			`{"name":"no id","role":"user"}`,
			`{"id":"u1","role":"superuser"}`,
			`{"id":"u1"}`,
		} {
			_, err := codec.Decode(raw)
			require.ErrorIs(t, err, ErrMalformedRecord, "raw %q", raw)
		}
	})
}

func TestSignedCodec(t *testing.T) {
	t.Parallel()

	codec := NewSignedCodec("test-secret", time.Hour)
	rec := Record{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "admin"}

	t.Run("round trip", func(t *testing.T) {
		encoded, err := codec.Encode(rec)
		require.NoError(t, err)

		decoded, err := codec.Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, rec, decoded)
	})

	t.Run("plain JSON payload is rejected", func(t *testing.T) {
		raw, err := json.Marshal(rec)
		require.NoError(t, err)

		_, err = codec.Decode(string(raw))
		require.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("tampered role claim is rejected", func(t *testing.T) {
		encoded, err := codec.Encode(Record{ID: "u1", Role: "user"})
		require.NoError(t, err)

		parts := strings.Split(encoded, ".")
		require.Len(t, parts, 3)

		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		tampered := base64.RawURLEncoding.EncodeToString(
			[]byte(strings.Replace(string(payload), `"user"`, `"admin"`, 1)))

		_, err = codec.Decode(parts[0] + "." + tampered + "." + parts[2])
		require.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := NewSignedCodec("other-secret", time.Hour)
		encoded, err := other.Encode(rec)
		require.NoError(t, err)

		_, err = codec.Decode(encoded)
		require.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		shortLived := NewSignedCodec("test-secret", -time.Minute)
		encoded, err := shortLived.Encode(rec)
		require.NoError(t, err)

		_, err = codec.Decode(encoded)
		require.ErrorIs(t, err, ErrMalformedRecord)
	})
}
