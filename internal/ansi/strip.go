// Package ansi strips terminal control sequences from captured process
// output.
//
// The filter operates on one chunk at a time and keeps no state between
// chunks: an ESC appearing as the last byte of a chunk is dropped, and a
// CSI or OSC sequence split across a chunk boundary has its tail bytes
// passed through as ordinary text. Callers that need stronger guarantees
// must arrange for sequences to arrive within a single chunk.
package ansi

const (
	esc = 0x1b
	bel = 0x07
)

// Strip removes ANSI CSI and OSC escape sequences from p in place and
// returns the shortened slice. All bytes outside recognized sequences pass
// through untouched; input containing no ESC byte is returned unchanged.
func Strip(p []byte) []byte {
	n := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c != esc {
			p[n] = c
			n++
			continue
		}
		if i+1 >= len(p) {
			// Lone ESC at the end of the chunk, drop it.
			continue
		}
		switch p[i+1] {
		case '[':
			// CSI: ESC [ ... final byte (0x40..0x7E).
			i += 2
			for i < len(p) && (p[i] < 0x40 || p[i] > 0x7e) {
				i++
			}
		case ']':
			// OSC: ESC ] ... BEL or ST (ESC \).
			i += 2
			for i < len(p) {
				if p[i] == bel {
					break
				}
				if p[i] == esc && i+1 < len(p) && p[i+1] == '\\' {
					i++
					break
				}
				i++
			}
		default:
			// Other simple two-byte sequences (e.g. ESC c).
			i++
		}
	}
	return p[:n]
}

// StripString removes ANSI escape sequences from s.
func StripString(s string) string {
	return string(Strip([]byte(s)))
}
