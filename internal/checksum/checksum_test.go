package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaw_KnownVector(t *testing.T) {
	// sha256("") and sha256("abc") from FIPS 180-2 test vectors
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Raw(nil))
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Raw([]byte("abc")))
}

func TestFile_MatchesRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := []byte("id,amount\n1,100\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, Raw(content), got)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
