package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetManifest(t *testing.T) {
	v0, err := GetManifest("0")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"v0/AARTIIND__EQ__NSE__NSE__MINUTE.csv",
		"v0/ABCAPITAL__EQ__NSE__NSE__MINUTE.csv",
	}, v0.Files)

	v1, err := GetManifest("1")
	require.NoError(t, err)
	assert.Len(t, v1.Files, 5)
	assert.Equal(t, v0.Files, v1.Files[:2])
	assert.Equal(t, "v1/ADANIGAS__EQ__NSE__NSE__MINUTE.csv", v1.Files[4])

	_, err = GetManifest("2")
	assert.Error(t, err)
	assert.False(t, IsValidVersion("2"))
	assert.True(t, IsValidVersion("1"))
}

func TestStockFromPath(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{path: "data/v0/AARTIIND__EQ__NSE__NSE__MINUTE.csv", expected: "AARTIIND"},
		{path: "ABFRL__EQ.csv", expected: "ABFRL"},
		{path: "/tmp/plain.csv", expected: "plain"},
		{path: "no_extension", expected: "no_extension"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, StockFromPath(tc.path))
		})
	}
}
