package api

import "fmt"

// DefaultMaxFrameLength bounds the declared length accepted by an Assembler.
const DefaultMaxFrameLength = 0x1000

// ParserState is the state of the frame assembler.
type ParserState int

const (
	// StateIdle waits for a start delimiter.
	StateIdle ParserState = iota
	// StateLength collects the two length bytes.
	StateLength
	// StatePayload collects frame bytes until the declared length is reached.
	StatePayload
	// StateChecksum waits for the checksum byte.
	StateChecksum
)

// String implements fmt.Stringer.
func (s ParserState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLength:
		return "CollectingLength"
	case StatePayload:
		return "CollectingPayload"
	case StateChecksum:
		return "AwaitingChecksum"
	default:
		return "Unknown"
	}
}

// ParseStatus indicates the outcome of one parsing step.
type ParseStatus int

const (
	// Incomplete means more bytes are needed.
	Incomplete ParseStatus = iota
	// Complete means a frame passed the checksum.
	Complete
	// Invalid means the frame being assembled was dropped.
	Invalid
)

// String implements fmt.Stringer.
func (s ParseStatus) String() string {
	switch s {
	case Incomplete:
		return "Incomplete"
	case Complete:
		return "Complete"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// ParseResult is the result after one parsing step.
// Err is set with Invalid, and also with Incomplete when a start delimiter
// discarded a partial frame.
type ParseResult struct {
	Status ParseStatus
	Frame  RawFrame
	Err    error
}

// Assembler assembles raw frames from an escaped byte stream.
// The zero value is usable and applies DefaultMaxFrameLength.
type Assembler struct {
	MaxFrameLength int

	state    ParserState
	unesc    Unescaper
	lenBytes int
	length   int
	sum      byte
	buf      []byte
}

// NewAssembler creates an Assembler with the specified length limit.
func NewAssembler(maxFrameLength int) *Assembler {
	return &Assembler{MaxFrameLength: maxFrameLength}
}

// State gets the current state.
func (a *Assembler) State() ParserState {
	return a.state
}

// Buffered returns the number of payload bytes collected so far.
func (a *Assembler) Buffered() int {
	return len(a.buf)
}

// Reset discards any partial frame.
func (a *Assembler) Reset() {
	a.state = StateIdle
	a.unesc.Reset()
	a.lenBytes, a.length, a.sum, a.buf = 0, 0, 0, nil
}

// Parse consumes one byte from the wire.
func (a *Assembler) Parse(b byte) (pr ParseResult) {
	if b == StartDelimiter {
		if a.state != StateIdle {
			pr.Err = &FramingError{
				Reason: ReasonRestart,
				Detail: fmt.Sprintf("partial frame discarded in %s (%d/%d bytes)", a.state, len(a.buf), a.length),
			}
		}
		a.Reset()
		a.state = StateLength
		return
	}
	if a.state == StateIdle {
		// noise between frames.
		return
	}
	v, ok := a.unesc.Unescape(b)
	if !ok {
		return
	}
	switch a.state {
	case StateLength:
		a.length = a.length<<8 | int(v)
		if a.lenBytes++; a.lenBytes < 2 {
			return
		}
		if limit := a.maxFrameLength(); a.length > limit {
			pr.Status = Invalid
			pr.Err = &FramingError{
				Reason: ReasonOverrun,
				Detail: fmt.Sprintf("declared length %d exceeds %d", a.length, limit),
			}
			a.Reset()
			return
		}
		a.buf = make([]byte, 0, a.length)
		if a.length == 0 {
			a.state = StateChecksum
		} else {
			a.state = StatePayload
		}
	case StatePayload:
		a.buf = append(a.buf, v)
		a.sum += v
		if len(a.buf) >= a.length {
			a.state = StateChecksum
		}
	case StateChecksum:
		frame, sum := a.buf, a.sum+v
		a.Reset()
		if sum != 0xff {
			pr.Status = Invalid
			pr.Err = &FramingError{
				Reason: ReasonChecksum,
				Detail: fmt.Sprintf("checksum 0x%02x mismatch over % x", v, []byte(frame)),
			}
			return
		}
		pr.Status, pr.Frame = Complete, RawFrame(frame)
	}
	return
}

// Feed parses a chunk of bytes and returns the results which are either
// not Incomplete or carry an error, in arrival order.
func (a *Assembler) Feed(data []byte) (results []ParseResult) {
	for _, b := range data {
		if pr := a.Parse(b); pr.Status != Incomplete || pr.Err != nil {
			results = append(results, pr)
		}
	}
	return
}

func (a *Assembler) maxFrameLength() int {
	if a.MaxFrameLength > 0 {
		return a.MaxFrameLength
	}
	return DefaultMaxFrameLength
}
