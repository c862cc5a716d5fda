package urlid

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
)

// weakHashLen is the length of a fallback identity hash.
const weakHashLen = 32

// Digest computes a cryptographic digest of data.
type Digest func(data []byte) ([]byte, error)

// SHA256 is the primary Digest.
func SHA256(data []byte) ([]byte, error) {
	sum := sha256.Sum256(data)
	return sum[:], nil
}

// Identity is the dedup key derived from a URL.
type Identity struct {
	// Normalized is the canonical URL the hash was computed over.
	Normalized string
	// Hash is the lowercase hex digest of Normalized.
	Hash string
	// Weak is set when the digest failed and Hash came from the base64
	// fallback. Weak hashes are not collision resistant.
	Weak bool
}

// Hasher derives identities from raw URLs.
type Hasher struct {
	normalizer *Normalizer
	digest     Digest
}

// HasherOption configures a Hasher.
type HasherOption func(*Hasher)

// WithNormalizer replaces the default Normalizer.
func WithNormalizer(n *Normalizer) HasherOption {
	return func(h *Hasher) {
		h.normalizer = n
	}
}

// WithDigest replaces the SHA-256 digest. A nil digest forces the weak fallback.
func WithDigest(d Digest) HasherOption {
	return func(h *Hasher) {
		h.digest = d
	}
}

// NewHasher creates a Hasher using SHA-256 and the default Normalizer.
func NewHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{normalizer: defaultNormalizer, digest: SHA256}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var defaultHasher = NewHasher()

// IdentityOf normalizes rawURL and hashes it with the default Hasher.
func IdentityOf(rawURL string) Identity {
	return defaultHasher.IdentityOf(rawURL)
}

// Normalizer returns the Normalizer used by h.
func (h *Hasher) Normalizer() *Normalizer {
	return h.normalizer
}

// IdentityOf normalizes rawURL and hashes the UTF-8 bytes of the result.
func (h *Hasher) IdentityOf(rawURL string) Identity {
	normalized := h.normalizer.Normalize(rawURL)

	if h.digest != nil {
		sum, err := h.digest([]byte(normalized))
		if err == nil {
			return Identity{Normalized: normalized, Hash: hex.EncodeToString(sum)}
		}
		slog.Warn("url digest failed, using weak identity", "error", err)
	}

	return Identity{Normalized: normalized, Hash: weakHash(normalized), Weak: true}
}

// weakHash is the compatibility fallback: a base64 prefix of the normalized URL.
func weakHash(normalized string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(normalized))
	if len(enc) > weakHashLen {
		enc = enc[:weakHashLen]
	}
	return enc
}
