package abuse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestViewabilityTokenRoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewViewabilityCodec("test-secret", 5*time.Second)
	codec.now = func() time.Time { return issued }

	token := codec.Issue("imp_123")
	require.Len(t, strings.Split(token, "|"), 3)
	require.True(t, strings.HasPrefix(token, "imp_123|"))

	// Exactly at the minimum display time the token becomes valid.
	codec.now = func() time.Time { return issued.Add(5 * time.Second) }
	require.True(t, codec.Validate(token))

	codec.now = func() time.Time { return issued.Add(time.Hour) }
	require.True(t, codec.Validate(token))
}

func TestViewabilityTokenTooYoung(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewViewabilityCodec("test-secret", 5*time.Second)
	codec.now = func() time.Time { return issued }

	token := codec.Issue("imp_123")

	codec.now = func() time.Time { return issued.Add(5*time.Second - time.Millisecond) }
	require.False(t, codec.Validate(token))
}

func TestViewabilityTokenTampered(t *testing.T) {
	codec := NewViewabilityCodec("test-secret", 0)
	token := codec.Issue("imp_123")

	// Change the impression id without re-signing.
	parts := strings.Split(token, "|")
	forged := "imp_456|" + parts[1] + "|" + parts[2]
	require.False(t, codec.Validate(forged))

	// Flip a character in the signature.
	sig := []byte(parts[2])
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	require.False(t, codec.Validate(parts[0]+"|"+parts[1]+"|"+string(sig)))
}

func TestViewabilityTokenWrongSecret(t *testing.T) {
	issuer := NewViewabilityCodec("secret-one", 0)
	verifier := NewViewabilityCodec("secret-two", 0)

	token := issuer.Issue("imp_123")
	require.False(t, verifier.Validate(token))
}

func TestViewabilityTokenMalformed(t *testing.T) {
	codec := NewViewabilityCodec("test-secret", 0)

	for _, token := range []string{
		"",
		"imp_123",
		"imp_123|1234567890",
		"imp_123|not-a-number|deadbeef",
		"a|b|c|d",
	} {
		require.False(t, codec.Validate(token), "token %q should be rejected", token)
	}
}

func TestViewabilityTokenDeterministic(t *testing.T) {
	codec := NewViewabilityCodec("test-secret", 0)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, codec.IssueAt("imp_123", at), codec.IssueAt("imp_123", at))
	require.NotEqual(t, codec.IssueAt("imp_123", at), codec.IssueAt("imp_124", at))
}
