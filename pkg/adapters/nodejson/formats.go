package nodejson

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FormatInfo describes a registered document format.
type FormatInfo struct {
	Name       string   `json:"name"`       // "json", "yaml"
	Extensions []string `json:"extensions"` // ".json"
}

// FormatRegistration pairs a format with its decoder. Decode must return
// maps as map[string]any and sequences as []any.
type FormatRegistration struct {
	Info   FormatInfo
	Decode func(data []byte) (map[string]any, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]FormatRegistration) // keyed by extension
)

func init() {
	Register(FormatRegistration{
		Info:   FormatInfo{Name: "json", Extensions: []string{".json"}},
		Decode: decodeJSON,
	})
	Register(FormatRegistration{
		Info:   FormatInfo{Name: "yaml", Extensions: []string{".yaml", ".yml"}},
		Decode: decodeYAML,
	})
}

// Register adds a document format for each of its extensions.
// Thread-safe for concurrent init() calls.
func Register(reg FormatRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, ext := range reg.Info.Extensions {
		registry[strings.ToLower(ext)] = reg
	}
}

// RegisteredFormats returns the names of all registered formats, sorted.
func RegisteredFormats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, reg := range registry {
		if !seen[reg.Info.Name] {
			seen[reg.Info.Name] = true
			out = append(out, reg.Info.Name)
		}
	}
	sort.Strings(out)
	return out
}

// decoderFor returns the decoder registered for path's extension.
// Returns nil if the extension is not registered.
func decoderFor(path string) func([]byte) (map[string]any, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[strings.ToLower(filepath.Ext(path))]; ok {
		return reg.Decode
	}
	return nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
