package signer

// Signer signs published catalog files
type Signer interface {
	// SignDetached creates an armored detached signature (data.json.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the armored public key readers verify against
	GetPublicKey() ([]byte, error)
}
