package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"evently/internal/domain"
)

// ErrInvalidTicket is returned when a token is malformed or its signature
// does not match.
var ErrInvalidTicket = errors.New("invalid ticket token")

type hmacIssuer struct {
	secret []byte
}

// NewHMACIssuer returns a TicketIssuer that mints HMAC-SHA256-signed tokens.
// The payload is eventID.userID.nonce.issuedAt, so a verifier holding the
// secret can validate authenticity offline at the venue entrance.
func NewHMACIssuer(secret string) domain.TicketIssuer {
	return &hmacIssuer{secret: []byte(secret)}
}

func (i *hmacIssuer) Issue(eventID, userID string, issuedAt time.Time) (string, error) {
	if eventID == "" || userID == "" {
		return "", fmt.Errorf("ticket: event and user are required")
	}
	nonce := uuid.NewString()
	payload := strings.Join([]string{eventID, userID, nonce, strconv.FormatInt(issuedAt.Unix(), 10)}, ".")
	sig := i.sign(payload)
	token := base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + sig
	return token, nil
}

func (i *hmacIssuer) Verify(token string) (string, string, error) {
	dot := strings.LastIndex(token, ".")
	if dot < 0 {
		return "", "", ErrInvalidTicket
	}
	encoded, sig := token[:dot], token[dot+1:]
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", ErrInvalidTicket
	}
	payload := string(raw)
	if !hmac.Equal([]byte(i.sign(payload)), []byte(sig)) {
		return "", "", ErrInvalidTicket
	}
	parts := strings.Split(payload, ".")
	if len(parts) != 4 {
		return "", "", ErrInvalidTicket
	}
	return parts[0], parts[1], nil
}

func (i *hmacIssuer) sign(payload string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
