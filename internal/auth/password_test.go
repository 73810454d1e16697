package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotContains(t, hash, "s3cret1")

	assert.True(t, h.Verify("s3cret1", hash))
	assert.False(t, h.Verify("s3cret2", hash))
	assert.False(t, h.Verify("", hash))
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same-password", first))
	assert.True(t, h.Verify("same-password", second))
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("anything", ""))
}

func TestNewPasswordHasher_ClampsInvalidCost(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		h := NewPasswordHasher(cost)

		hash, err := h.Hash("clamped-cost-pw")
		require.NoError(t, err, "cost %d", cost)

		actual, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err, "cost %d", cost)
		assert.Equal(t, bcrypt.DefaultCost, actual, "cost %d", cost)
		assert.True(t, h.Verify("clamped-cost-pw", hash), "cost %d", cost)
	}
}
