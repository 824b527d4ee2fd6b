package versionsync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Format is the manifest file format a rewriter understands.
type Format uint8

const (
	// FormatJSON covers package.json-style manifests with a top-level
	// "version" field.
	FormatJSON Format = iota
	// FormatKeyValue covers Cargo.toml / pyproject / gemspec-style
	// manifests with a `version = "..."` or `version: ...` line.
	FormatKeyValue
)

// Manifest names one version-carrying file in the release.
type Manifest struct {
	Path   string
	Format Format
}

// DetectFormat guesses the rewriter from the file name.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatKeyValue
}

var (
	jsonVersionRe = regexp.MustCompile(`("version"\s*:\s*")([^"]*)(")`)
	kvVersionRe   = regexp.MustCompile(`(?m)^(\s*"?version"?\s*[:=]\s*["']?)([0-9A-Za-z.+~-]+)(["']?\s*,?\s*)$`)
)

// ReadVersion extracts the version declared by a manifest.
func ReadVersion(m Manifest) (string, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return "", err
	}

	switch m.Format {
	case FormatJSON:
		var doc struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return "", fmt.Errorf("%s: %w", m.Path, err)
		}
		if doc.Version == "" {
			return "", fmt.Errorf("%s: no version field", m.Path)
		}
		return doc.Version, nil
	default:
		match := kvVersionRe.FindSubmatch(data)
		if match == nil {
			return "", fmt.Errorf("%s: no version field", m.Path)
		}
		return string(match[2]), nil
	}
}

// rewrite returns the manifest content with its version field replaced,
// touching nothing else in the file.
func rewrite(m Manifest, data []byte, version string) ([]byte, error) {
	var re *regexp.Regexp
	switch m.Format {
	case FormatJSON:
		re = jsonVersionRe
	default:
		re = kvVersionRe
	}

	if !re.Match(data) {
		return nil, fmt.Errorf("%s: no version field to rewrite", m.Path)
	}

	replaced := false
	out := re.ReplaceAllFunc(data, func(match []byte) []byte {
		if replaced {
			return match
		}
		replaced = true
		sub := re.FindSubmatch(match)
		return []byte(string(sub[1]) + version + string(sub[3]))
	})
	return out, nil
}
