package provider_test

import (
	"testing"

	"github.com/blues/cfm/internal/provider"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_001"}`)
	secret := "whsec_test"

	header := provider.Sign(payload, secret)
	require.NoError(t, provider.VerifySignature(payload, header, secret))
}

func TestVerifySignatureMissing(t *testing.T) {
	err := provider.VerifySignature([]byte("payload"), "", "secret")
	require.ErrorIs(t, err, provider.ErrMissingSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte("payload")
	header := provider.Sign(payload, "secret_a")

	err := provider.VerifySignature(payload, header, "secret_b")
	require.ErrorIs(t, err, provider.ErrInvalidSignature)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	header := provider.Sign([]byte("payload"), "secret")

	err := provider.VerifySignature([]byte("tampered"), header, "secret")
	require.ErrorIs(t, err, provider.ErrInvalidSignature)
}

func TestVerifySignatureMalformedHex(t *testing.T) {
	err := provider.VerifySignature([]byte("payload"), "sha256=zzzz", "secret")
	require.ErrorIs(t, err, provider.ErrInvalidSignature)
}
