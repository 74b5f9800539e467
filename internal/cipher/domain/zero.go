package domain

// Zero overwrites b with zeros. Used on derived keys and decrypted key material.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
