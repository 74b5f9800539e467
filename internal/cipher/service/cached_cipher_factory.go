package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// Cache bounds used when NewCachedCipherFactory is given non-positive values.
const (
	DefaultCipherCacheSize = 1024
	DefaultCipherCacheTTL  = 10 * time.Minute
)

// CachedCipherFactory memoizes cipher instances keyed by kind and option fingerprint.
//
// The cache holds at most size instances, evicting the least recently used, and drops
// instances older than ttl. Deferred per-record options (a salt derived from the record id,
// for example) produce one key per record, so both bounds matter. Concurrent requests for
// the same key construct the cipher once. Failed constructions are not cached.
type CachedCipherFactory struct {
	next  CipherFactory
	cache *expirable.LRU[string, cipherDomain.Cipher]
	group singleflight.Group
}

// NewCachedCipherFactory wraps next with a bounded instance cache.
func NewCachedCipherFactory(next CipherFactory, size int, ttl time.Duration) *CachedCipherFactory {
	if size <= 0 {
		size = DefaultCipherCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCipherCacheTTL
	}
	return &CachedCipherFactory{
		next:  next,
		cache: expirable.NewLRU[string, cipherDomain.Cipher](size, nil, ttl),
	}
}

// CreateCipher returns a cached instance or builds one through the wrapped factory.
//
// Construction is shared between concurrent callers and runs detached from any single
// caller's cancellation; each caller still stops waiting when its own ctx is done.
func (f *CachedCipherFactory) CreateCipher(
	ctx context.Context,
	kind cipherDomain.Kind,
	opts cipherDomain.Options,
) (cipherDomain.Cipher, error) {
	key := string(kind) + ":" + opts.Fingerprint()
	if c, ok := f.cache.Get(key); ok {
		return c, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (any, error) {
		if c, ok := f.cache.Get(key); ok {
			return c, nil
		}
		c, err := f.next.CreateCipher(buildCtx, kind, opts)
		if err != nil {
			return nil, err
		}
		f.cache.Add(key, c)
		return c, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(cipherDomain.Cipher), nil
	}
}

// Len returns the number of cached instances.
func (f *CachedCipherFactory) Len() int {
	return f.cache.Len()
}

// Purge drops every cached instance.
func (f *CachedCipherFactory) Purge() {
	f.cache.Purge()
}
