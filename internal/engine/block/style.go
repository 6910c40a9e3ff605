package block

import (
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// StyleMap holds presentation properties for a styled block, keyed by
// CSS-ish property name. Unknown keys pass through untouched; no
// validation failure is ever raised for malformed style input.
type StyleMap map[string]string

// colorKeys are the properties whose values are canonicalized to hex
// notation when they parse as colors.
var colorKeys = map[string]bool{
	"color":            true,
	"background-color": true,
	"border-color":     true,
}

// Clone returns a copy of the map. Clone of nil is nil.
func (m StyleMap) Clone() StyleMap {
	if m == nil {
		return nil
	}
	out := make(StyleMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether two style maps hold the same entries.
func (m StyleMap) Equal(other StyleMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Normalize returns a copy with color-valued properties canonicalized
// to lowercase hex. Values that do not parse as hex colors are kept
// verbatim, best-effort.
func (m StyleMap) Normalize() StyleMap {
	if m == nil {
		return nil
	}
	out := make(StyleMap, len(m))
	for k, v := range m {
		if colorKeys[k] {
			if c, err := colorful.Hex(v); err == nil {
				out[k] = c.Hex()
				continue
			}
		}
		out[k] = v
	}
	return out
}

// String renders the map as a deterministic "key:value;" style string,
// sorted by key, suitable for a surface node's style attribute.
func (m StyleMap) String() string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(m[k])
		sb.WriteByte(';')
	}
	return sb.String()
}

// ParseStyle parses a "key:value;" style string back into a StyleMap.
// Malformed segments are skipped. An empty string parses to nil.
func ParseStyle(s string) StyleMap {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	m := make(StyleMap)
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		k, v, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
