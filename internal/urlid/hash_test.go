package urlid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityOf_SHA256(t *testing.T) {
	id := IdentityOf("https://x.com/job?utm_source=a&id=5")

	assert.Equal(t, "https://x.com/job?id=5", id.Normalized)
	assert.Equal(t, "c875554e41436633ee6d0221f200542eb9e4e4525ff05e7d269a2ddd204e6bff", id.Hash)
	assert.False(t, id.Weak)
	assert.Len(t, id.Hash, 64)
}

func TestIdentityOf_EquivalentURLsShareHash(t *testing.T) {
	a := IdentityOf("https://x.com/job?utm_source=a&id=5")
	b := IdentityOf("https://x.com/job?id=5&utm_source=b")
	c := IdentityOf("HTTPS://X.COM/job/?id=5")

	assert.Equal(t, a.Hash, b.Hash)
	assert.Equal(t, a.Hash, c.Hash)
}

func TestIdentityOf_DifferentURLsDiffer(t *testing.T) {
	a := IdentityOf("https://x.com/job?id=5")
	b := IdentityOf("https://x.com/job?id=6")
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestIdentityOf_WeakFallbackOnDigestError(t *testing.T) {
	h := NewHasher(WithDigest(func([]byte) ([]byte, error) {
		return nil, errors.New("digest unavailable")
	}))

	id := h.IdentityOf("https://x.com/job?utm_source=a&id=5")
	require.True(t, id.Weak)
	assert.Equal(t, "aHR0cHM6Ly94LmNvbS9qb2I/aWQ9NQ==", id.Hash)
	assert.Equal(t, "https://x.com/job?id=5", id.Normalized)
}

func TestIdentityOf_WeakFallbackTruncates(t *testing.T) {
	h := NewHasher(WithDigest(nil))

	id := h.IdentityOf("https://boards.example.com/jobs/12345?lang=en&gh_jid=987")
	require.True(t, id.Weak)
	assert.Len(t, id.Hash, weakHashLen)
	assert.Equal(t, "aHR0cHM6Ly9ib2FyZHMuZXhhbXBsZS5j", id.Hash)
}

func TestIdentityOf_WeakFallbackIsDeterministic(t *testing.T) {
	h := NewHasher(WithDigest(nil))

	a := h.IdentityOf("https://x.com/job?id=5&utm_source=a")
	b := h.IdentityOf("https://x.com/job?utm_source=b&id=5")
	assert.Equal(t, a.Hash, b.Hash)
}

func TestNewHasher_CustomNormalizer(t *testing.T) {
	h := NewHasher(WithNormalizer(NewNormalizer("gh_src")))

	a := h.IdentityOf("https://x.com/job?id=1&gh_src=abc")
	b := h.IdentityOf("https://x.com/job?id=1")
	assert.Equal(t, a.Hash, b.Hash)
	assert.True(t, h.Normalizer().IsTracking("gh_src"))
}
