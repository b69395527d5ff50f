package iofs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirError(t *testing.T) {
	orig := errors.New("permission denied")
	err := NewCreateDirError("/test/dir", orig)

	var dirErr *CreateDirError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "/test/dir", dirErr.Dir)

	assert.ErrorIs(t, err, orig,
		"Should unwrap to the original error")
	assert.Contains(t, err.Error(), "/test/dir")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCopyFileError(t *testing.T) {
	orig := errors.New("no space left")
	err := NewCopyFileError("/test/trellis.yaml", orig)

	var copyErr *CopyFileError
	require.ErrorAs(t, err, &copyErr)
	assert.Equal(t, "/test/trellis.yaml", copyErr.Path)

	assert.ErrorIs(t, err, orig,
		"Should unwrap to the original error")
	assert.Contains(t, err.Error(), "/test/trellis.yaml")
	assert.Contains(t, err.Error(), "no space left")
}
