package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

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

// countingFactory delays construction so concurrent callers overlap.
type countingFactory struct {
	calls atomic.Int32
}

func (f *countingFactory) CreateCipher(
	_ context.Context,
	_ cipherDomain.Kind,
	opts cipherDomain.Options,
) (cipherDomain.Cipher, error) {
	f.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return NewDigestCipher(opts)
}

func TestCachedCipherFactory_ReusesInstances(t *testing.T) {
	ctx := context.Background()
	next := NewCipherManager(nil, nil)
	factory := NewCachedCipherFactory(next, 0, 0)

	opts := cipherDomain.Options{cipherDomain.OptionKey: "k1"}
	c1, err := factory.CreateCipher(ctx, cipherDomain.KindSymmetric, opts)
	require.NoError(t, err)
	c2, err := factory.CreateCipher(ctx, cipherDomain.KindSymmetric, cipherDomain.Options{cipherDomain.OptionKey: "k1"})
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, factory.Len())

	c3, err := factory.CreateCipher(ctx, cipherDomain.KindSymmetric, cipherDomain.Options{cipherDomain.OptionKey: "k2"})
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)

	c4, err := factory.CreateCipher(ctx, cipherDomain.KindDigest, cipherDomain.Options{cipherDomain.OptionKey: "k1"})
	require.NoError(t, err)
	assert.Equal(t, cipherDomain.KindDigest, c4.Kind())
	assert.Equal(t, 3, factory.Len())

	factory.Purge()
	assert.Equal(t, 0, factory.Len())

	c5, err := factory.CreateCipher(ctx, cipherDomain.KindSymmetric, opts)
	require.NoError(t, err)
	assert.NotSame(t, c1, c5)
}

func TestCachedCipherFactory_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &mockCipherFactory{}
	factory := NewCachedCipherFactory(next, 0, 0)

	digest, err := NewDigestCipher(nil)
	require.NoError(t, err)
	boom := errors.New("kms unavailable")

	next.On("CreateCipher", mock.Anything, cipherDomain.KindDigest, mock.Anything).Return(nil, boom).Once()
	next.On("CreateCipher", mock.Anything, cipherDomain.KindDigest, mock.Anything).Return(digest, nil).Once()

	_, err = factory.CreateCipher(ctx, cipherDomain.KindDigest, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, factory.Len())

	c, err := factory.CreateCipher(ctx, cipherDomain.KindDigest, nil)
	require.NoError(t, err)
	assert.Same(t, digest, c)

	c, err = factory.CreateCipher(ctx, cipherDomain.KindDigest, nil)
	require.NoError(t, err)
	assert.Same(t, digest, c)

	next.AssertNumberOfCalls(t, "CreateCipher", 2)
	next.AssertExpectations(t)
}

func TestCachedCipherFactory_ConcurrentCallersShareConstruction(t *testing.T) {
	ctx := context.Background()
	next := &countingFactory{}
	factory := NewCachedCipherFactory(next, 0, 0)
	// The cache's expiry sweeper lives as long as the factory.
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	const workers = 32
	results := make([]cipherDomain.Cipher, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := factory.CreateCipher(ctx, cipherDomain.KindDigest, cipherDomain.Options{cipherDomain.OptionSalt: "s"})
			assert.NoError(t, err)
			results[i] = c
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestCachedCipherFactory_BoundedBySize(t *testing.T) {
	ctx := context.Background()
	factory := NewCachedCipherFactory(NewCipherManager(nil, nil), 8, time.Hour)

	// One salt per record, as with a salt deferred to the record id.
	var first cipherDomain.Cipher
	for i := range 5000 {
		c, err := factory.CreateCipher(ctx, cipherDomain.KindDigest,
			cipherDomain.Options{cipherDomain.OptionSalt: fmt.Sprintf("record-%d", i)})
		require.NoError(t, err)
		if i == 0 {
			first = c
		}
	}
	assert.Equal(t, 8, factory.Len())

	again, err := factory.CreateCipher(ctx, cipherDomain.KindDigest,
		cipherDomain.Options{cipherDomain.OptionSalt: "record-0"})
	require.NoError(t, err)
	assert.NotSame(t, first, again)
}

func TestCachedCipherFactory_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	factory := NewCachedCipherFactory(NewCipherManager(nil, nil), 8, 50*time.Millisecond)
	opts := cipherDomain.Options{cipherDomain.OptionSalt: "s"}

	c1, err := factory.CreateCipher(ctx, cipherDomain.KindDigest, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, factory.Len())

	assert.Eventually(t, func() bool { return factory.Len() == 0 }, time.Second, 10*time.Millisecond)

	c2, err := factory.CreateCipher(ctx, cipherDomain.KindDigest, opts)
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
}

func TestNewCachedCipherFactory_Defaults(t *testing.T) {
	factory := NewCachedCipherFactory(NewCipherManager(nil, nil), 0, 0)

	for i := range DefaultCipherCacheSize + 10 {
		_, err := factory.CreateCipher(context.Background(), cipherDomain.KindDigest,
			cipherDomain.Options{cipherDomain.OptionSalt: fmt.Sprintf("s-%d", i)})
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultCipherCacheSize, factory.Len())
}

// gatedFactory blocks construction until release is closed and records the ctx it saw.
type gatedFactory struct {
	release chan struct{}
	seen    chan context.Context
}

func (f *gatedFactory) CreateCipher(
	ctx context.Context,
	_ cipherDomain.Kind,
	opts cipherDomain.Options,
) (cipherDomain.Cipher, error) {
	f.seen <- ctx
	<-f.release
	return NewDigestCipher(opts)
}

func TestCachedCipherFactory_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	next := &gatedFactory{release: make(chan struct{}), seen: make(chan context.Context, 1)}
	factory := NewCachedCipherFactory(next, 0, 0)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	opts := cipherDomain.Options{cipherDomain.OptionSalt: "shared"}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := factory.CreateCipher(firstCtx, cipherDomain.KindDigest, opts)
		firstErr <- err
	}()
	buildCtx := <-next.seen

	type result struct {
		c   cipherDomain.Cipher
		err error
	}
	waiter := make(chan result, 1)
	go func() {
		c, err := factory.CreateCipher(context.Background(), cipherDomain.KindDigest, opts)
		waiter <- result{c, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.NoError(t, buildCtx.Err())

	close(next.release)
	res := <-waiter
	require.NoError(t, res.err)
	assert.Equal(t, cipherDomain.KindDigest, res.c.Kind())
	assert.Equal(t, 1, factory.Len())
}
