package scorer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Manifest sections that contribute dependencies, in merge order.
const (
	sectionDependencies    = "dependencies"
	sectionDevDependencies = "devDependencies"
)

// ErrInvalidManifest is returned when the manifest text is not a JSON object.
var ErrInvalidManifest = errors.New("scorer: invalid manifest")

// ParseManifest decodes package.json text into an ordered Manifest.
//
// Key order follows the source text, so the decoder walks tokens instead of
// unmarshaling into a map. Runtime dependencies come first, then development
// dependencies. A name declared in both sets keeps its runtime entry. A key
// repeated inside one object keeps its first position and its last value.
// Sections that are absent or not objects count as empty.
func ParseManifest(text string) (*interfaces.Manifest, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidManifest)
	}

	var (
		name    string
		runtime []interfaces.Dependency
		dev     []interfaces.Dependency
	)

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: decoding %q: %v", ErrInvalidManifest, key, err)
		}

		switch key {
		case sectionDependencies:
			if runtime, err = readSection(raw, false); err != nil {
				return nil, err
			}
		case sectionDevDependencies:
			if dev, err = readSection(raw, true); err != nil {
				return nil, err
			}
		case "name":
			_ = json.Unmarshal(raw, &name) // non-string names are ignored
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after manifest object", ErrInvalidManifest)
	}

	return &interfaces.Manifest{
		Name:         name,
		Dependencies: mergeDependencies(runtime, dev),
	}, nil
}

// mergeDependencies appends dev entries whose names are not already declared at runtime.
func mergeDependencies(runtime, dev []interfaces.Dependency) []interfaces.Dependency {
	merged := make([]interfaces.Dependency, 0, len(runtime)+len(dev))
	seen := make(map[string]bool, len(runtime)+len(dev))

	for _, d := range runtime {
		seen[d.Name] = true
		merged = append(merged, d)
	}
	for _, d := range dev {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		merged = append(merged, d)
	}
	return merged
}

// readSection walks one dependency object in source order.
// Non-object values yield no dependencies.
func readSection(raw json.RawMessage, isDev bool) ([]interfaces.Dependency, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	var deps []interfaces.Dependency
	index := make(map[string]int)

	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("%w: decoding version of %q: %v", ErrInvalidManifest, name, err)
		}
		version := versionString(val)

		if i, ok := index[name]; ok {
			deps[i].Version = version
			continue
		}
		index[name] = len(deps)
		deps = append(deps, interfaces.Dependency{Name: name, Version: version, Dev: isDev})
	}

	return deps, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected token %v", ErrInvalidManifest, tok)
	}
	return key, nil
}

// versionString returns string values as-is and any other JSON value as its raw text.
func versionString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
