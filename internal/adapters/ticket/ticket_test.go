package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHMACIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewHMACIssuer("test-secret")
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token, err := issuer.Issue("ev-1", "user-1", issuedAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	eventID, userID, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "ev-1", eventID)
	require.Equal(t, "user-1", userID)
}

func TestHMACIssuer_TokensAreUnique(t *testing.T) {
	issuer := NewHMACIssuer("test-secret")
	now := time.Now()

	first, err := issuer.Issue("ev-1", "user-1", now)
	require.NoError(t, err)
	second, err := issuer.Issue("ev-1", "user-1", now)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestHMACIssuer_RejectsTampering(t *testing.T) {
	issuer := NewHMACIssuer("test-secret")

	token, err := issuer.Issue("ev-1", "user-1", time.Now())
	require.NoError(t, err)

	// Flip a character in the signed payload.
	tampered := "x" + token[1:]
	_, _, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidTicket)
}

func TestHMACIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := NewHMACIssuer("secret-a").Issue("ev-1", "user-1", time.Now())
	require.NoError(t, err)

	_, _, err = NewHMACIssuer("secret-b").Verify(token)
	require.ErrorIs(t, err, ErrInvalidTicket)
}

func TestHMACIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewHMACIssuer("test-secret")

	for _, token := range []string{"", "no-dot", "!!!.sig", "aGVsbG8.sig"} {
		_, _, err := issuer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidTicket)
	}
}

func TestHMACIssuer_RequiresIdentity(t *testing.T) {
	issuer := NewHMACIssuer("test-secret")

	_, err := issuer.Issue("", "user-1", time.Now())
	require.Error(t, err)
	_, err = issuer.Issue("ev-1", "", time.Now())
	require.Error(t, err)
}
