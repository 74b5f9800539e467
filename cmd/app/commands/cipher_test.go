package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	cipherService "github.com/allisson/encryptor/internal/cipher/service"
	apperrors "github.com/allisson/encryptor/internal/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	factory := cipherService.NewCipherManager(nil, nil)
	options := []string{"key=customer-key", "kdf=hkdf"}

	t.Run("success-text", func(t *testing.T) {
		var out bytes.Buffer
		err := RunEncrypt(ctx, factory, logger, &out, "symmetric", options, "123-45-6789", "text")
		require.NoError(t, err)

		stored := strings.TrimSpace(out.String())
		require.True(t, strings.HasPrefix(stored, "enc:symmetric:"))
		require.NotContains(t, stored, "123-45-6789")

		var plain bytes.Buffer
		err = RunDecrypt(ctx, factory, logger, &plain, "symmetric", options, stored, "text")
		require.NoError(t, err)
		require.Equal(t, "123-45-6789\n", plain.String())
	})

	t.Run("success-json", func(t *testing.T) {
		var out bytes.Buffer
		err := RunEncrypt(ctx, factory, logger, &out, "digest", []string{"salt=pepper"}, "ada@example.com", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, "digest", result["kind"])
		require.Equal(t, false, result["can_decrypt"])
		require.Contains(t, result["value"], "enc:digest:")
	})

	t.Run("decrypt-one-way", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunEncrypt(ctx, factory, logger, &out, "digest", nil, "x", "text"))

		err := RunDecrypt(ctx, factory, logger, io.Discard, "digest", nil, strings.TrimSpace(out.String()), "text")
		require.ErrorIs(t, err, cipherDomain.ErrDecryptionUnsupported)
	})

	t.Run("decrypt-kind-mismatch", func(t *testing.T) {
		err := RunDecrypt(ctx, factory, logger, io.Discard, "symmetric", options, "enc:digest:abc", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "encrypted with kind")
	})

	t.Run("decrypt-not-encrypted", func(t *testing.T) {
		err := RunDecrypt(ctx, factory, logger, io.Discard, "symmetric", options, "123-45-6789", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not an encrypted value")
	})

	t.Run("decrypt-wrong-key", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunEncrypt(ctx, factory, logger, &out, "symmetric", options, "secret", "text"))

		err := RunDecrypt(
			ctx, factory, logger, io.Discard,
			"symmetric", []string{"key=other-key", "kdf=hkdf"}, strings.TrimSpace(out.String()), "text",
		)
		require.ErrorIs(t, err, cipherDomain.ErrDecryptionFailed)
	})

	t.Run("unknown-kind", func(t *testing.T) {
		err := RunEncrypt(ctx, factory, logger, io.Discard, "rot13", nil, "x", "text")
		require.ErrorIs(t, err, cipherDomain.ErrUnsupportedKind)
	})

	t.Run("invalid-option", func(t *testing.T) {
		err := RunEncrypt(ctx, factory, logger, io.Discard, "symmetric", []string{"key"}, "x", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "expected name=value")
	})

	t.Run("blank-key", func(t *testing.T) {
		err := RunEncrypt(ctx, factory, logger, io.Discard, "symmetric", []string{"key=  "}, "x", "text")
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing-key", func(t *testing.T) {
		err := RunEncrypt(ctx, factory, logger, io.Discard, "symmetric", nil, "x", "text")
		require.ErrorIs(t, err, cipherDomain.ErrCipherConfiguration)
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunEncrypt(ctx, factory, logger, io.Discard, "digest", nil, "x", "yaml")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
	})
}

func TestRunVerifyPassword(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	factory := cipherService.NewCipherManager(nil, nil)

	var out bytes.Buffer
	require.NoError(t, RunEncrypt(ctx, factory, logger, &out, "password", nil, "correct horse", "text"))
	hash := strings.TrimSpace(out.String())

	t.Run("match", func(t *testing.T) {
		var result bytes.Buffer
		err := RunVerifyPassword(ctx, factory, logger, &result, nil, "correct horse", hash, "text")
		require.NoError(t, err)
		require.Equal(t, "Password matches\n", result.String())
	})

	t.Run("mismatch-json", func(t *testing.T) {
		var result bytes.Buffer
		err := RunVerifyPassword(ctx, factory, logger, &result, nil, "battery staple", hash, "json")
		require.NoError(t, err)
		require.JSONEq(t, `{"match": false}`, result.String())
	})

	t.Run("not-a-password-hash", func(t *testing.T) {
		err := RunVerifyPassword(ctx, factory, logger, io.Discard, nil, "x", "enc:digest:abc", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not a password value")
	})
}

func TestRunCreateKeyPair(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	var out bytes.Buffer
	require.NoError(t, RunCreateKeyPair(logger, &out, "json"))

	var pair cipherService.KeyPair
	require.NoError(t, json.Unmarshal(out.Bytes(), &pair))
	require.NotEmpty(t, pair.PublicKey)
	require.NotEmpty(t, pair.PrivateKey)

	// The public key alone encrypts; only the private key decrypts.
	factory := cipherService.NewCipherManager(nil, nil)
	var encrypted bytes.Buffer
	require.NoError(t, RunEncrypt(
		ctx, factory, logger, &encrypted, "asymmetric", []string{"public_key=" + pair.PublicKey}, "hello", "text",
	))

	var plain bytes.Buffer
	require.NoError(t, RunDecrypt(
		ctx, factory, logger, &plain,
		"asymmetric", []string{"private_key=" + pair.PrivateKey}, strings.TrimSpace(encrypted.String()), "text",
	))
	require.Equal(t, "hello\n", plain.String())

	var text bytes.Buffer
	require.NoError(t, RunCreateKeyPair(logger, &text, "text"))
	assert.Contains(t, text.String(), "public_key=")
	assert.Contains(t, text.String(), "private_key=")
}

func TestRunCreateLocalKMSKey(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	var out bytes.Buffer
	require.NoError(t, RunCreateLocalKMSKey(logger, &out, "json"))

	var result map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	uri := result["kms_key_uri"]
	require.True(t, strings.HasPrefix(uri, "base64key://"))

	kms := cipherService.NewKMSService()
	defer func() { _ = kms.Close() }()
	factory := cipherService.NewCipherManager(kms, nil)

	var encrypted bytes.Buffer
	require.NoError(t, RunEncrypt(ctx, factory, logger, &encrypted, "kms", []string{"key_uri=" + uri}, "hello", "text"))

	var plain bytes.Buffer
	require.NoError(t, RunDecrypt(
		ctx, factory, logger, &plain, "kms", []string{"key_uri=" + uri}, strings.TrimSpace(encrypted.String()), "text",
	))
	require.Equal(t, "hello\n", plain.String())

	var text bytes.Buffer
	require.NoError(t, RunCreateLocalKMSKey(logger, &text, "text"))
	require.Contains(t, text.String(), `KMS_KEY_URI="base64key://`)
}

func TestParseAssignments(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got, err := parseAssignments("set", []string{"name=Ada", "note=a=b", "name=Grace"})
		require.NoError(t, err)
		require.Equal(t, map[string]string{"name": "Grace", "note": "a=b"}, got)
	})

	t.Run("empty-name", func(t *testing.T) {
		_, err := parseAssignments("set", []string{"=value"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid --set")
	})
}
