package jwt

import (
	"testing"
	"time"

	"recipe-feed/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, secret string) JWTService {
	t.Helper()
	svc, err := NewJWTService(secret)
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	svc, err := NewJWTService("")
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, svc)
}

func TestUploadTicketRoundTrip(t *testing.T) {
	svc := newService(t, "secret")
	customID := "dinner-1"
	want := domain.UploadTicket{UserID: "user-1", Key: "recipes/a.png", Name: "a.png", Size: 42, CustomID: &customID}

	token, err := svc.GenerateUploadTicket(want, time.Minute)
	require.NoError(t, err)

	got, err := svc.ValidateUploadTicket(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUploadTicketRejectsTampering(t *testing.T) {
	svc := newService(t, "secret")
	token, err := svc.GenerateUploadTicket(domain.UploadTicket{UserID: "user-1", Key: "recipes/a.png"}, time.Minute)
	require.NoError(t, err)

	_, err = newService(t, "other").ValidateUploadTicket(token)
	assert.ErrorIs(t, err, domain.ErrUploadTicket)

	tampered := []byte(token)
	i := len(tampered) - 10
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}
	_, err = svc.ValidateUploadTicket(string(tampered))
	assert.ErrorIs(t, err, domain.ErrUploadTicket)
}

func TestUploadTicketExpires(t *testing.T) {
	svc := newService(t, "secret")
	token, err := svc.GenerateUploadTicket(domain.UploadTicket{UserID: "user-1", Key: "recipes/a.png"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateUploadTicket(token)
	assert.ErrorIs(t, err, domain.ErrUploadTicket)
}

func TestUploadTicketRequiresKey(t *testing.T) {
	svc := newService(t, "secret")
	token, err := svc.GenerateUploadTicket(domain.UploadTicket{UserID: "user-1"}, time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateUploadTicket(token)
	assert.ErrorIs(t, err, domain.ErrUploadTicket)
}
