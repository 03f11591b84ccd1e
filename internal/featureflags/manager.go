// Package featureflags evaluates the FEATURE_FLAGS rollout rules of the blog API.
package featureflags

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flag names understood by the blog API.
const (
	// ParallelEnrichment fans address lookups for list endpoints out to a
	// bounded worker pool instead of resolving them one by one.
	ParallelEnrichment = "parallel_enrichment"
)

type mode int

const (
	modeOff mode = iota
	modeOn
	modeRollout
)

// rule is a parsed flag value. percent is only meaningful for modeRollout.
type rule struct {
	raw     string
	mode    mode
	percent uint32
}

// Manager holds the rules parsed from a "name=value,..." list, e.g.
// "parallel_enrichment=25%,image_webp=on". Values are on/true/1, off/false/0
// or N% for a deterministic per-user rollout. Unparseable values are off.
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		rules[name] = parseRule(value)
	}
	return &Manager{rules: rules}
}

func parseRule(value string) rule {
	r := rule{raw: value}
	switch value {
	case "on", "true", "1":
		r.mode = modeOn
		return r
	case "off", "false", "0":
		return r
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return r
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil, pct <= 0:
	case pct >= 100:
		r.mode = modeOn
	default:
		r.mode = modeRollout
		r.percent = uint32(pct)
	}
	return r
}

// Enabled reports whether name is on for userID. A partial rollout is never
// on for the anonymous user (0).
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch r.mode {
	case modeOn:
		return true
	case modeRollout:
		return userID != 0 && bucket(normalize(name), userID) < r.percent
	default:
		return false
	}
}

// Names returns the configured flag names in sorted order.
func (m *Manager) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns the configured values as written.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string)
	if m == nil {
		return out
	}
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every configured flag for userID.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool)
	for _, name := range m.Names() {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket places userID in [0,100) for name. The same pair always lands in
// the same bucket.
func bucket(name string, userID uint) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], uint64(userID))
	_, _ = h.Write(id[:])
	return h.Sum32() % 100
}
