// Package angles converts pose landmarks into named scalar joint angles.
package angles

import (
	"fmt"
	"strings"
)

// Channel identifies one named joint-angle measurement tracked over time.
type Channel string

// The fixed channel set. DKnee and DHip are derived left/right differences
// that only appear in exports, never as recorded channels.
const (
	KneeL Channel = "kneeL"
	KneeR Channel = "kneeR"
	HipL  Channel = "hipL"
	HipR  Channel = "hipR"
	Trunk Channel = "trunk"
)

// All returns the recordable channels in deterministic order.
func All() []Channel {
	return []Channel{KneeL, KneeR, HipL, HipR, Trunk}
}

// Valid reports whether ch is one of the recordable channels.
func Valid(ch Channel) bool {
	for _, c := range All() {
		if c == ch {
			return true
		}
	}
	return false
}

// ParseChannels parses a comma-separated channel list (e.g. "kneeL,trunk").
// An empty input selects all channels. Duplicates are collapsed; order
// follows All(), not input order, so iteration is deterministic.
func ParseChannels(s string) ([]Channel, error) {
	if strings.TrimSpace(s) == "" {
		return All(), nil
	}
	want := make(map[Channel]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ch := Channel(part)
		if !Valid(ch) {
			return nil, fmt.Errorf("unknown channel %q (valid: %s)", part, validChannelsString())
		}
		want[ch] = true
	}
	out := make([]Channel, 0, len(want))
	for _, ch := range All() {
		if want[ch] {
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		return All(), nil
	}
	return out, nil
}

func validChannelsString() string {
	parts := make([]string, 0, len(All()))
	for _, ch := range All() {
		parts = append(parts, string(ch))
	}
	return strings.Join(parts, ", ")
}
