package app

import (
	cipherDomain "github.com/allisson/encryptor/internal/cipher/domain"
	cipherService "github.com/allisson/encryptor/internal/cipher/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cipherService.KMSService {
	c.kmsServiceInit.Do(func() {
		kms := cipherService.NewKMSService()
		c.mu.Lock()
		c.kmsService = kms
		c.mu.Unlock()
	})
	return c.kmsService
}

// CipherFactory returns the cipher factory shared by every gateway built by this container.
func (c *Container) CipherFactory() cipherService.CipherFactory {
	c.cipherFactoryInit.Do(func() {
		c.cipherFactory = c.initCipherFactory()
	})
	return c.cipherFactory
}

// CipherDefaults returns the per-kind options derived from configuration.
func (c *Container) CipherDefaults() map[cipherDomain.Kind]cipherDomain.Options {
	defaults := map[cipherDomain.Kind]cipherDomain.Options{
		cipherDomain.KindSymmetric: {cipherDomain.OptionAlgorithm: c.config.DefaultSymmetricAlgorithm},
		cipherDomain.KindPassword:  {cipherDomain.OptionPolicy: c.config.PasswordHashPolicy},
	}
	if c.config.KMSKeyURI != "" {
		defaults[cipherDomain.KindKMS] = cipherDomain.Options{cipherDomain.OptionKeyURI: c.config.KMSKeyURI}
	}
	return defaults
}

// initCipherFactory creates the cipher manager, wrapped in a bounded instance cache when
// enabled.
func (c *Container) initCipherFactory() cipherService.CipherFactory {
	manager := cipherService.NewCipherManager(c.KMSService(), c.CipherDefaults())
	if !c.config.CipherCacheEnabled {
		return manager
	}
	return cipherService.NewCachedCipherFactory(manager, c.config.CipherCacheSize, c.config.CipherCacheTTL)
}
