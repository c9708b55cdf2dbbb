package v1

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Manifest lists the raw instrument files of a dataset version, relative to the raw data dir.
type Manifest struct {
	Version string
	Files   []string
}

var v0Files = []string{
	"v0/AARTIIND__EQ__NSE__NSE__MINUTE.csv",
	"v0/ABCAPITAL__EQ__NSE__NSE__MINUTE.csv",
}

var manifests = map[string]Manifest{
	"0": {Version: "0", Files: v0Files},
	"1": {Version: "1", Files: append(append([]string{}, v0Files...),
		"v1/ABFRL__EQ__NSE__NSE__MINUTE.csv",
		"v1/ADANIENT__EQ__NSE__NSE__MINUTE.csv",
		"v1/ADANIGAS__EQ__NSE__NSE__MINUTE.csv",
	)},
}

// GetManifest returns the manifest of a version.
func GetManifest(version string) (Manifest, error) {
	m, ok := manifests[version]
	if !ok {
		return Manifest{}, fmt.Errorf("unknown dataset version %q, expected 0 or 1", version)
	}
	return m, nil
}

// IsValidVersion checks if a dataset version has a manifest.
func IsValidVersion(version string) bool {
	_, ok := manifests[version]
	return ok
}

// StockFromPath derives the instrument id from a file name: the base name
// without extension, cut at the first "__".
func StockFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stock, _, _ := strings.Cut(stem, "__")
	return stock
}

// InstrumentSummary reports how one instrument went through preprocessing.
type InstrumentSummary struct {
	Stock   string
	Path    string
	Ticks   int
	Minutes int
	Rows    int
}

// Summary reports a preprocessing run.
type Summary struct {
	Version     string
	OutputPath  string
	Instruments []InstrumentSummary
	Missing     []string
	TotalRows   int
}
