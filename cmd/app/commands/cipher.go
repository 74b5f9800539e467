package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"gocloud.dev/secrets/localsecrets"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	cipherService "github.com/allisson/encryptor/internal/cipher/service"
)

// passwordVerifier is implemented by the password cipher kind.
type passwordVerifier interface {
	Verify(plaintext string, value cipherDomain.EncryptedValue) (bool, error)
}

func createCipher(
	ctx context.Context,
	factory cipherService.CipherFactory,
	kindName string,
	options []string,
) (cipherDomain.Cipher, error) {
	kind, err := cipherDomain.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	opts, err := parseOptions(options)
	if err != nil {
		return nil, err
	}
	return factory.CreateCipher(ctx, kind, opts)
}

// RunEncrypt encrypts value with a cipher built from kind and options and writes the
// stored form ("enc:<kind>:<payload>").
func RunEncrypt(
	ctx context.Context,
	factory cipherService.CipherFactory,
	logger *slog.Logger,
	writer io.Writer,
	kind string,
	options []string,
	value string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	c, err := createCipher(ctx, factory, kind, options)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	ev, err := c.Encrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	if format == "json" {
		if err := outputJSON(map[string]any{
			"kind":        string(ev.Kind()),
			"value":       ev.String(),
			"can_decrypt": c.CanDecrypt(),
		}, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, ev.String())
	}

	logger.Debug("value encrypted", slog.String("kind", string(ev.Kind())))
	return nil
}

// RunDecrypt decrypts a stored value with a cipher built from kind and options.
func RunDecrypt(
	ctx context.Context,
	factory cipherService.CipherFactory,
	logger *slog.Logger,
	writer io.Writer,
	kind string,
	options []string,
	value string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	ev, ok := cipherDomain.ParseEncryptedValue(value)
	if !ok {
		return fmt.Errorf("value is not an encrypted value: expected enc:<kind>:<payload>")
	}
	if string(ev.Kind()) != kind {
		return fmt.Errorf("value was encrypted with kind %q, not %q", ev.Kind(), kind)
	}

	c, err := createCipher(ctx, factory, kind, options)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	if !c.CanDecrypt() {
		return fmt.Errorf("%w: %s cipher cannot decrypt", cipherDomain.ErrDecryptionUnsupported, kind)
	}

	plaintext, err := ev.WithCipher(c).Decrypt(ctx)
	if err != nil {
		return fmt.Errorf("failed to decrypt value: %w", err)
	}

	if format == "json" {
		if err := outputJSON(map[string]string{"plaintext": plaintext}, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, plaintext)
	}

	logger.Debug("value decrypted", slog.String("kind", kind))
	return nil
}

// RunVerifyPassword checks plaintext against a stored password hash.
func RunVerifyPassword(
	ctx context.Context,
	factory cipherService.CipherFactory,
	logger *slog.Logger,
	writer io.Writer,
	options []string,
	plaintext string,
	hash string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	ev, ok := cipherDomain.ParseEncryptedValue(hash)
	if !ok || ev.Kind() != cipherDomain.KindPassword {
		return fmt.Errorf("hash is not a password value: expected enc:password:<hash>")
	}

	c, err := createCipher(ctx, factory, string(cipherDomain.KindPassword), options)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	verifier, ok := c.(passwordVerifier)
	if !ok {
		return fmt.Errorf("password cipher does not support verification")
	}

	match, err := verifier.Verify(plaintext, ev)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}

	if format == "json" {
		if err := outputJSON(map[string]bool{"match": match}, writer); err != nil {
			return err
		}
	} else if match {
		_, _ = fmt.Fprintln(writer, "Password matches")
	} else {
		_, _ = fmt.Fprintln(writer, "Password does not match")
	}

	logger.Debug("password verified", slog.Bool("match", match))
	return nil
}

// RunCreateKeyPair generates a key pair for the asymmetric cipher kind. The public key
// alone produces an encrypt-only cipher.
func RunCreateKeyPair(logger *slog.Logger, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	pair, err := cipherService.GenerateKeyPair()
	if err != nil {
		return err
	}

	if format == "json" {
		if err := outputJSON(pair, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "# Asymmetric key pair")
		_, _ = fmt.Fprintln(writer, "# Keep the private key out of services that only encrypt")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "public_key=%s\n", pair.PublicKey)
		_, _ = fmt.Fprintf(writer, "private_key=%s\n", pair.PrivateKey)
	}

	logger.Info("asymmetric key pair created")
	return nil
}

// RunCreateLocalKMSKey generates a base64key:// URI for the localsecrets KMS driver.
//
// Security: Never use localsecrets in production. Use a cloud KMS or hashivault:// URI.
func RunCreateLocalKMSKey(logger *slog.Logger, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	key, err := localsecrets.NewRandomKey()
	if err != nil {
		return fmt.Errorf("failed to generate local KMS key: %w", err)
	}
	uri := "base64key://" + base64.URLEncoding.EncodeToString(key[:])
	cipherDomain.Zero(key[:])

	if format == "json" {
		if err := outputJSON(map[string]string{"kms_key_uri": uri}, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "# Local KMS key (development only)")
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", uri)
	}

	logger.Info("local KMS key created")
	return nil
}
