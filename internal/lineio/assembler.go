// Package lineio assembles filtered byte streams into decoded text lines.
package lineio

// Decoder converts the accumulated bytes of a single line into text. The
// boolean reports whether the bytes could be decoded; lines that fail to
// decode are dropped silently by the assembler.
type Decoder func([]byte) (string, bool)

// Assembler accumulates bytes into a line buffer and emits a decoded line
// whenever a line feed or carriage return is seen. The buffer is owned by
// whichever goroutine calls Consume; the assembler performs no locking.
type Assembler struct {
	decode Decoder
	emit   func(string)
	buf    []byte
}

// NewAssembler returns an assembler that decodes completed lines with decode
// and hands non-empty results to emit.
func NewAssembler(decode Decoder, emit func(string)) *Assembler {
	return &Assembler{decode: decode, emit: emit}
}

// Consume appends filtered bytes to the line buffer, flushing a completed
// line on every \n or \r byte. Bytes after the last terminator remain
// buffered until a later chunk terminates them; nothing is flushed at end of
// stream.
func (a *Assembler) Consume(p []byte) {
	for _, c := range p {
		if c == '\n' || c == '\r' {
			a.flush()
			continue
		}
		a.buf = append(a.buf, c)
	}
}

// Len reports the number of buffered bytes awaiting a line terminator.
func (a *Assembler) Len() int {
	return len(a.buf)
}

func (a *Assembler) flush() {
	if len(a.buf) == 0 {
		return
	}
	line, ok := a.decode(a.buf)
	a.buf = a.buf[:0]
	if !ok || line == "" {
		return
	}
	a.emit(line)
}
