package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	p, err := Page{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: DefaultLimit}, p)

	p, err = Page{Limit: 10000, Offset: 20}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: MaxLimit, Offset: 20}, p)

	_, err = Page{Limit: -1}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = Page{Offset: -5}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestNewEnvelopeNeverNil(t *testing.T) {
	env := NewEnvelope[string](nil, 0, Page{Limit: 5})
	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
	assert.Equal(t, 5, env.Limit)
}
