package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	cipherService "github.com/allisson/encryptor/internal/cipher/service"
	apperrors "github.com/allisson/encryptor/internal/errors"
	fieldDomain "github.com/allisson/encryptor/internal/field/domain"
	appValidation "github.com/allisson/encryptor/internal/validation"
)

// testRecord is a Record backed by a map.
type testRecord struct {
	id    string
	attrs map[string]fieldDomain.Value
	isNew bool
	sets  int
}

func newTestRecord(isNew bool, attrs map[string]string) *testRecord {
	r := &testRecord{id: "rec-1", attrs: make(map[string]fieldDomain.Value), isNew: isNew}
	for name, v := range attrs {
		r.attrs[name] = fieldDomain.ParseStored(v)
	}
	return r
}

func (r *testRecord) Attribute(name string) fieldDomain.Value { return r.attrs[name] }

func (r *testRecord) SetAttribute(name string, value fieldDomain.Value) {
	r.sets++
	r.attrs[name] = value
}

func (r *testRecord) IsNewRecord() bool { return r.isNew }

type mockCipherFactory struct {
	mock.Mock
}

func (m *mockCipherFactory) CreateCipher(
	ctx context.Context,
	kind cipherDomain.Kind,
	opts cipherDomain.Options,
) (cipherDomain.Cipher, error) {
	args := m.Called(ctx, kind, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cipherDomain.Cipher), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keyOptions(key string) fieldDomain.Options {
	return fieldDomain.StaticOptions(map[string]any{cipherDomain.OptionKey: key})
}

// setupGateway registers ssn (symmetric), email_hash (digest) and returns a gateway
// backed by the real cipher manager.
func setupGateway(t *testing.T) (Gateway, *fieldDomain.Registry) {
	t.Helper()
	registry := fieldDomain.NewRegistry()
	require.NoError(t, registry.Register("ssn", cipherDomain.KindSymmetric, keyOptions("k1")))
	require.NoError(t, registry.Register("email_hash", cipherDomain.KindDigest, nil))
	registry.Seal()

	return NewGateway(registry, cipherService.NewCipherManager(nil, nil), newTestLogger()), registry
}

// persist simulates a save followed by a reload from storage.
func persist(rec *testRecord) *testRecord {
	stored := make(map[string]string, len(rec.attrs))
	for name, v := range rec.attrs {
		stored[name] = v.Stored()
	}
	return newTestRecord(false, stored)
}

func TestGateway_SSNScenario(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
	require.NoError(t, gw.EncodeForPersistence(ctx, rec, "ssn"))

	stored := rec.Attribute("ssn")
	require.True(t, stored.IsEncrypted())
	ev, _ := stored.Encrypted()
	assert.NotEqual(t, "123-45-6789", ev.Payload())
	assert.NotContains(t, stored.Stored(), "123-45-6789")

	read, err := gw.DecodeForRead(ctx, rec, "ssn")
	require.NoError(t, err)
	ev, ok := read.Encrypted()
	require.True(t, ok)
	plaintext, err := ev.Decrypt(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", plaintext)

	// and again after a round trip through storage
	loaded := persist(rec)
	read, err = gw.DecodeForRead(ctx, loaded, "ssn")
	require.NoError(t, err)
	ev, ok = read.Encrypted()
	require.True(t, ok)
	require.True(t, ev.HasCipher())
	plaintext, err = ev.Decrypt(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", plaintext)
}

func TestGateway_EncodeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
	require.NoError(t, gw.EncodeForPersistence(ctx, rec, "ssn"))
	once := rec.Attribute("ssn").Stored()

	require.NoError(t, gw.EncodeForPersistence(ctx, rec, "ssn"))
	assert.Equal(t, once, rec.Attribute("ssn").Stored())
	assert.Equal(t, 1, rec.sets)

	// stored ciphertext reloaded from the database is not encrypted again
	loaded := persist(rec)
	require.NoError(t, gw.EncodeForPersistence(ctx, loaded, "ssn"))
	assert.Equal(t, once, loaded.Attribute("ssn").Stored())
	assert.Equal(t, 0, loaded.sets)
}

func TestGateway_BlankPassthrough(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	for _, blank := range []string{"", "   "} {
		rec := newTestRecord(true, map[string]string{"ssn": blank})
		require.NoError(t, gw.EncodeForPersistence(ctx, rec, "ssn"))
		v := rec.Attribute("ssn")
		assert.False(t, v.IsEncrypted())
		assert.Equal(t, blank, v.Stored())
		assert.Equal(t, 0, rec.sets)
	}

	absent := newTestRecord(true, nil)
	require.NoError(t, gw.EncodeForPersistence(ctx, absent, "ssn"))
	assert.True(t, absent.Attribute("ssn").IsEmpty())
}

func TestGateway_DigestIsOneWay(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	rec := newTestRecord(true, map[string]string{"email_hash": "ada@example.com"})
	require.NoError(t, gw.EncodeForPersistence(ctx, rec, "email_hash"))

	loaded := persist(rec)
	read, err := gw.DecodeForRead(ctx, loaded, "email_hash")
	require.NoError(t, err)
	ev, ok := read.Encrypted()
	require.True(t, ok)
	assert.True(t, ev.HasCipher())
	assert.False(t, ev.CanDecrypt())

	_, err = ev.Decrypt(ctx)
	assert.ErrorIs(t, err, cipherDomain.ErrDecryptionUnsupported)

	view, err := gw.DecodeForValidation(ctx, loaded, "email_hash")
	require.NoError(t, err)
	assert.True(t, view.IsEncrypted())
}

func TestGateway_DecodeForRead_Passthrough(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	t.Run("blank", func(t *testing.T) {
		rec := newTestRecord(false, map[string]string{"ssn": ""})
		v, err := gw.DecodeForRead(ctx, rec, "ssn")
		require.NoError(t, err)
		assert.True(t, v.IsEmpty())
	})

	t.Run("local plaintext awaiting encode", func(t *testing.T) {
		rec := newTestRecord(false, map[string]string{"ssn": "123-45-6789"})
		v, err := gw.DecodeForRead(ctx, rec, "ssn")
		require.NoError(t, err)
		text, ok := v.Text()
		assert.True(t, ok)
		assert.Equal(t, "123-45-6789", text)
	})

	t.Run("new record is not bound", func(t *testing.T) {
		rec := newTestRecord(true, map[string]string{"ssn": "enc:symmetric:Y2lwaGVy"})
		v, err := gw.DecodeForRead(ctx, rec, "ssn")
		require.NoError(t, err)
		ev, ok := v.Encrypted()
		require.True(t, ok)
		assert.False(t, ev.HasCipher())
		assert.Equal(t, 0, rec.sets)
	})

	t.Run("bound value is reused", func(t *testing.T) {
		rec := newTestRecord(false, map[string]string{"ssn": "enc:symmetric:Y2lwaGVy"})
		first, err := gw.DecodeForRead(ctx, rec, "ssn")
		require.NoError(t, err)
		second, err := gw.DecodeForRead(ctx, rec, "ssn")
		require.NoError(t, err)

		a, _ := first.Encrypted()
		b, _ := second.Encrypted()
		assert.Same(t, a.Cipher(), b.Cipher())
		assert.Equal(t, 1, rec.sets)
	})
}

func TestGateway_DecodeForValidation(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	t.Run("unsaved plaintext is returned as-is", func(t *testing.T) {
		rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
		v, err := gw.DecodeForValidation(ctx, rec, "ssn")
		require.NoError(t, err)
		text, ok := v.Text()
		require.True(t, ok)
		assert.Equal(t, "123-45-6789", text)
	})

	t.Run("encoded value on a new record is decrypted", func(t *testing.T) {
		rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
		require.NoError(t, gw.EncodeForPersistence(ctx, rec, "ssn"))
		v, err := gw.DecodeForValidation(ctx, rec, "ssn")
		require.NoError(t, err)
		text, ok := v.Text()
		require.True(t, ok)
		assert.Equal(t, "123-45-6789", text)
	})

	t.Run("stored value is decrypted", func(t *testing.T) {
		rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
		require.NoError(t, gw.EncodeForPersistence(ctx, rec, "ssn"))
		v, err := gw.DecodeForValidation(ctx, persist(rec), "ssn")
		require.NoError(t, err)
		text, _ := v.Text()
		assert.Equal(t, "123-45-6789", text)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		rec := newTestRecord(false, map[string]string{"ssn": "enc:symmetric:Y2lwaGVydGV4dGNpcGhlcnRleHQ="})
		_, err := gw.DecodeForValidation(ctx, rec, "ssn")
		assert.ErrorIs(t, err, cipherDomain.ErrDecryptionFailed)
		assert.Contains(t, err.Error(), `"ssn"`)
	})
}

func TestGateway_DeferredOptions(t *testing.T) {
	ctx := context.Background()
	registry := fieldDomain.NewRegistry()
	require.NoError(t, registry.Register("ssn", cipherDomain.KindDigest, fieldDomain.Options{
		cipherDomain.OptionSalt: fieldDomain.Defer(func(rec fieldDomain.Record) (any, error) {
			return rec.(*testRecord).id, nil
		}),
	}))
	registry.Seal()
	gw := NewGateway(registry, cipherService.NewCipherManager(nil, nil), newTestLogger())

	a := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
	b := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
	b.id = "rec-2"

	require.NoError(t, gw.EncodeForPersistence(ctx, a, "ssn"))
	require.NoError(t, gw.EncodeForPersistence(ctx, b, "ssn"))
	assert.NotEqual(t, a.Attribute("ssn").Stored(), b.Attribute("ssn").Stored())
}

func TestGateway_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered field", func(t *testing.T) {
		gw, _ := setupGateway(t)
		rec := newTestRecord(true, map[string]string{"name": "Ada"})

		err := gw.EncodeForPersistence(ctx, rec, "name")
		assert.ErrorIs(t, err, fieldDomain.ErrFieldNotRegistered)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = gw.DecodeForRead(ctx, rec, "name")
		assert.ErrorIs(t, err, fieldDomain.ErrFieldNotRegistered)

		_, err = gw.DecodeForValidation(ctx, rec, "name")
		assert.ErrorIs(t, err, fieldDomain.ErrFieldNotRegistered)
	})

	t.Run("missing key material", func(t *testing.T) {
		registry := fieldDomain.NewRegistry()
		require.NoError(t, registry.Register("ssn", cipherDomain.KindSymmetric, nil))
		gw := NewGateway(registry, cipherService.NewCipherManager(nil, nil), newTestLogger())

		rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
		err := gw.EncodeForPersistence(ctx, rec, "ssn")
		assert.ErrorIs(t, err, cipherDomain.ErrCipherConfiguration)
		assert.ErrorIs(t, err, cipherDomain.ErrMissingOption)
		assert.Equal(t, "123-45-6789", rec.Attribute("ssn").Stored())
	})

	t.Run("deferred option failure", func(t *testing.T) {
		boom := errors.New("no tenant")
		registry := fieldDomain.NewRegistry()
		require.NoError(t, registry.Register("ssn", cipherDomain.KindDigest, fieldDomain.Options{
			cipherDomain.OptionSalt: fieldDomain.Defer(func(fieldDomain.Record) (any, error) { return nil, boom }),
		}))
		gw := NewGateway(registry, cipherService.NewCipherManager(nil, nil), newTestLogger())

		rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789"})
		err := gw.EncodeForPersistence(ctx, rec, "ssn")
		assert.ErrorIs(t, err, cipherDomain.ErrCipherConfiguration)
		assert.ErrorIs(t, err, boom)

		loaded := newTestRecord(false, map[string]string{"ssn": "enc:digest:abc"})
		_, err = gw.DecodeForRead(ctx, loaded, "ssn")
		assert.ErrorIs(t, err, cipherDomain.ErrCipherConfiguration)
	})

	t.Run("factory errors are classified as configuration errors", func(t *testing.T) {
		registry := fieldDomain.NewRegistry()
		require.NoError(t, registry.Register("ssn", cipherDomain.KindKMS, nil))
		factory := &mockCipherFactory{}
		boom := errors.New("kms unreachable")
		factory.On("CreateCipher", ctx, cipherDomain.KindKMS, mock.Anything).Return(nil, boom).Once()
		gw := NewGateway(registry, factory, newTestLogger())

		err := gw.EncodeForPersistence(ctx, newTestRecord(true, map[string]string{"ssn": "x"}), "ssn")
		assert.ErrorIs(t, err, cipherDomain.ErrCipherConfiguration)
		assert.ErrorIs(t, err, boom)
		factory.AssertExpectations(t)
	})
}

func TestGateway_EncodeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("encodes every registered field", func(t *testing.T) {
		gw, _ := setupGateway(t)
		rec := newTestRecord(true, map[string]string{
			"name":       "Ada",
			"ssn":        "123-45-6789",
			"email_hash": "ada@example.com",
		})

		require.NoError(t, gw.EncodeAll(ctx, rec))
		assert.True(t, rec.Attribute("ssn").IsEncrypted())
		assert.True(t, rec.Attribute("email_hash").IsEncrypted())
		assert.Equal(t, "Ada", rec.Attribute("name").Stored())
	})

	t.Run("failure leaves the record untouched", func(t *testing.T) {
		registry := fieldDomain.NewRegistry()
		require.NoError(t, registry.Register("email_hash", cipherDomain.KindDigest, nil))
		require.NoError(t, registry.Register("ssn", cipherDomain.KindSymmetric, nil))
		registry.Seal()
		gw := NewGateway(registry, cipherService.NewCipherManager(nil, nil), newTestLogger())

		rec := newTestRecord(true, map[string]string{
			"ssn":        "123-45-6789",
			"email_hash": "ada@example.com",
		})

		err := gw.EncodeAll(ctx, rec)
		assert.ErrorIs(t, err, cipherDomain.ErrMissingOption)
		assert.Equal(t, "ada@example.com", rec.Attribute("email_hash").Stored())
		assert.Equal(t, "123-45-6789", rec.Attribute("ssn").Stored())
		assert.Equal(t, 0, rec.sets)
	})
}

func TestGateway_ValidateRecord(t *testing.T) {
	ctx := context.Background()
	gw, _ := setupGateway(t)

	rules := map[string][]validation.Rule{
		"ssn":  {validation.Required, validation.Match(ssnPattern)},
		"name": {validation.Required, appValidation.NotBlank},
	}

	t.Run("validators see plaintext of stored ciphertext", func(t *testing.T) {
		rec := newTestRecord(true, map[string]string{"ssn": "123-45-6789", "name": "Ada"})
		require.NoError(t, gw.EncodeAll(ctx, rec))

		assert.NoError(t, gw.ValidateRecord(ctx, persist(rec), rules))
	})

	t.Run("failures wrap invalid input", func(t *testing.T) {
		rec := newTestRecord(true, map[string]string{"ssn": "not-an-ssn", "name": "   "})
		err := gw.ValidateRecord(ctx, rec, rules)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "ssn")
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("decrypt failure aborts validation", func(t *testing.T) {
		rec := newTestRecord(false, map[string]string{"ssn": "enc:symmetric:Y2lwaGVydGV4dGNpcGhlcnRleHQ="})
		err := gw.ValidateRecord(ctx, rec, rules)
		assert.ErrorIs(t, err, cipherDomain.ErrDecryptionFailed)
	})
}
