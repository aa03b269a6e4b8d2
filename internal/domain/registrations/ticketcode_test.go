package registrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketCodeGenerator(t *testing.T) {
	gen, err := NewTicketCodeGenerator("test-salt")
	require.NoError(t, err)

	first := gen.Generate(1)
	second := gen.Generate(2)

	assert.True(t, strings.HasPrefix(first, "SYN26-"))
	assert.True(t, strings.HasPrefix(second, "SYN26-"))
	assert.NotEqual(t, first, second)

	// codes are stable for the same id
	assert.Equal(t, first, gen.Generate(1))

	// at least 8 chars after the prefix
	assert.GreaterOrEqual(t, len(strings.TrimPrefix(first, "SYN26-")), 8)
}

func TestTicketCodeGeneratorSaltChangesCodes(t *testing.T) {
	a, err := NewTicketCodeGenerator("salt-a")
	require.NoError(t, err)
	b, err := NewTicketCodeGenerator("salt-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.Generate(42), b.Generate(42))
}
