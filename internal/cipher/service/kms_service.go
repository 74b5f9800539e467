package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
)

// kmsService opens gocloud.dev/secrets keepers and keeps one per key URI.
type kmsService struct {
	mu      sync.Mutex
	keepers map[string]Keeper
	open    func(ctx context.Context, keyURI string) (Keeper, error)
}

// NewKMSService creates a KMS service backed by gocloud.dev/secrets.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func NewKMSService() KMSService {
	return &kmsService{
		keepers: make(map[string]Keeper),
		open: func(ctx context.Context, keyURI string) (Keeper, error) {
			keeper, err := secrets.OpenKeeper(ctx, keyURI)
			if err != nil {
				return nil, err
			}
			return keeper, nil
		},
	}
}

// Keeper returns the keeper for keyURI, opening it on first use.
func (k *kmsService) Keeper(ctx context.Context, keyURI string) (Keeper, error) {
	if keyURI == "" {
		return nil, fmt.Errorf("%w: %s", cipherDomain.ErrMissingOption, cipherDomain.OptionKeyURI)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if keeper, ok := k.keepers[keyURI]; ok {
		return keeper, nil
	}

	keeper, err := k.open(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open KMS keeper: %v", cipherDomain.ErrCipherConfiguration, err)
	}
	k.keepers[keyURI] = keeper
	return keeper, nil
}

// Close closes every open keeper and forgets them.
func (k *kmsService) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var errs []error
	for uri, keeper := range k.keepers {
		if err := keeper.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close keeper: %w", err))
		}
		delete(k.keepers, uri)
	}
	return errors.Join(errs...)
}
