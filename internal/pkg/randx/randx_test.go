package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageID(t *testing.T) {
	id, err := PageID()
	require.NoError(t, err)
	assert.Len(t, id, PageIDLength)
	for _, c := range id {
		assert.True(t, strings.ContainsRune(Base62Chars, c))
	}
}

func TestRequestID(t *testing.T) {
	_, err := uuid.Parse(RequestID())
	assert.NoError(t, err)
	assert.NotEqual(t, RequestID(), RequestID())
}
