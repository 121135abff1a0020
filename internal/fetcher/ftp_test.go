package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFTPFetcher_AnonymousDefaults(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{})
	assert.Equal(t, "anonymous", f.opts.User)
	assert.Equal(t, "anonymous@", f.opts.Password)

	f = NewFTPFetcher(FTPOptions{User: "tuser", Password: "secret"})
	assert.Equal(t, "tuser", f.opts.User)
	assert.Equal(t, "secret", f.opts.Password)
}

func TestParseFTPURL(t *testing.T) {
	t.Run("adds default port", func(t *testing.T) {
		host, path, err := parseFTPURL("ftp://download.bls.gov/pub/time.series/tu/lexicon.csv")
		require.NoError(t, err)
		assert.Equal(t, "download.bls.gov:21", host)
		assert.Equal(t, "/pub/time.series/tu/lexicon.csv", path)
	})

	t.Run("keeps explicit port", func(t *testing.T) {
		host, _, err := parseFTPURL("ftp://mirror.example.com:2121/file.csv")
		require.NoError(t, err)
		assert.Equal(t, "mirror.example.com:2121", host)
	})

	t.Run("rejects non-ftp scheme", func(t *testing.T) {
		_, _, err := parseFTPURL("https://download.bls.gov/file.csv")
		assert.Error(t, err)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, _, err := parseFTPURL("ftp://download.bls.gov")
		assert.Error(t, err)
	})
}
