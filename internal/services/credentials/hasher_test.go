package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewWithCost(bcrypt.MinCost)

	hash, err := h.Hash("sekret")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret", hash)

	assert.True(t, h.Verify("sekret", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("", hash))
}

func TestHashIsSalted(t *testing.T) {
	h := NewWithCost(bcrypt.MinCost)

	a, err := h.Hash("sekret")
	require.NoError(t, err)
	b, err := h.Hash("sekret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewWithCostClampsOutOfRange(t *testing.T) {
	hash, err := NewWithCost(99).Hash("sekret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := NewWithCost(bcrypt.MinCost)
	assert.False(t, h.Verify("sekret", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("sekret", strings.Repeat("x", 60)))
}
