package hpgl

import (
	"errors"

	"penarm/arm"
	"penarm/core"
)

const (
	// MaxInstruction is the longest instruction buffered, excluding ';'
	MaxInstruction = 256

	// MaxPoints is the most coordinate pairs one instruction may carry
	MaxPoints = 32

	// MaxCoord bounds the magnitude of a coordinate so that differences
	// between two of them stay far from int64 overflow
	MaxCoord = 1 << 31
)

var (
	// ErrParseSkip marks an instruction that was dropped
	ErrParseSkip = errors.New("hpgl: instruction skipped")

	// ErrEndOfStream is returned once the source is exhausted
	ErrEndOfStream = errors.New("hpgl: end of stream")

	// ErrInstructionPending means the read budget ran out, or an
	// asynchronous source has no data yet, before a full instruction arrived
	ErrInstructionPending = errors.New("hpgl: instruction pending")
)

// Opcode is the operation of one instruction
type Opcode uint8

const (
	OpNoop       Opcode = iota // empty instruction
	OpInitialize               // IN
	OpPenUp                    // PU, optional coordinates
	OpPenDown                  // PD, optional coordinates
	OpMoveTo                   // PA or a bare coordinate list
	OpSelectPen                // SP, accepted and ignored
)

func (op Opcode) String() string {
	switch op {
	case OpNoop:
		return "NOOP"
	case OpInitialize:
		return "IN"
	case OpPenUp:
		return "PU"
	case OpPenDown:
		return "PD"
	case OpMoveTo:
		return "PA"
	case OpSelectPen:
		return "SP"
	default:
		return "??"
	}
}

// Command is one parsed instruction.
// Points aliases parser storage and is valid until the next parse.
type Command struct {
	Op     Opcode
	Points []arm.Point
}

// SkipReason says why an instruction was dropped
type SkipReason uint8

const (
	UnknownOpcode SkipReason = iota
	Overlong
	BadCoordinates
	TooManyPoints
)

func (r SkipReason) String() string {
	switch r {
	case UnknownOpcode:
		return "unknown opcode"
	case Overlong:
		return "instruction too long"
	case BadCoordinates:
		return "bad coordinates"
	case TooManyPoints:
		return "too many points"
	default:
		return "unknown"
	}
}

// ParseError describes a skipped instruction
type ParseError struct {
	Index  int    // zero-based instruction number in the stream
	Text   string // instruction text, possibly truncated
	Reason SkipReason
}

func (e *ParseError) Error() string {
	return "hpgl: instruction " + core.Itoa(e.Index) + " \"" + e.Text + "\" skipped: " + e.Reason.String()
}

// Unwrap lets errors.Is match ErrParseSkip
func (e *ParseError) Unwrap() error {
	return ErrParseSkip
}

// Parser splits a character stream into instructions.
// It never buffers more than MaxInstruction characters.
type Parser struct {
	src      core.FileSource
	buf      [MaxInstruction]byte
	n        int
	overlong bool
	ended    bool
	index    int
	points   [MaxPoints]arm.Point
}

// NewParser creates a parser reading from src
func NewParser(src core.FileSource) *Parser {
	return &Parser{src: src}
}

// Reset drops any partial instruction and restarts instruction numbering.
// It does not rewind the source.
func (p *Parser) Reset() {
	p.n = 0
	p.overlong = false
	p.ended = false
	p.index = 0
}

// Index returns the number of instructions completed so far
func (p *Parser) Index() int {
	return p.index
}

// Next reads at most budget characters and returns the next instruction.
// Whitespace is dropped. At end of stream a trailing instruction without
// ';' is still returned, after which every call returns ErrEndOfStream.
func (p *Parser) Next(budget int) (Command, error) {
	if p.ended {
		return Command{}, ErrEndOfStream
	}

	pending, async := p.src.(core.PendingSource)
	for i := 0; i < budget; i++ {
		if async && pending.Pending() {
			return Command{}, ErrInstructionPending
		}

		c, ok := p.src.ReadChar()
		if !ok {
			p.ended = true
			if p.n == 0 && !p.overlong {
				return Command{}, ErrEndOfStream
			}
			return p.complete()
		}

		switch c {
		case ';':
			return p.complete()
		case ' ', '\t', '\r', '\n':
			continue
		}

		if p.n == len(p.buf) {
			p.overlong = true
			continue
		}
		p.buf[p.n] = c
		p.n++
	}
	return Command{}, ErrInstructionPending
}

// complete parses the buffered instruction and clears the buffer
func (p *Parser) complete() (Command, error) {
	index := p.index
	p.index++
	text := p.buf[:p.n]
	p.n = 0

	if p.overlong {
		p.overlong = false
		return Command{}, &ParseError{Index: index, Text: string(text), Reason: Overlong}
	}

	cmd, reason, ok := p.parse(text)
	if !ok {
		return Command{}, &ParseError{Index: index, Text: string(text), Reason: reason}
	}
	return cmd, nil
}

// parse classifies one instruction by its two-letter prefix
func (p *Parser) parse(text []byte) (Command, SkipReason, bool) {
	if len(text) == 0 {
		return Command{Op: OpNoop}, 0, true
	}

	if isDigit(text[0]) || text[0] == '-' || text[0] == '+' {
		return p.withPoints(OpMoveTo, text)
	}
	if len(text) < 2 {
		return Command{}, UnknownOpcode, false
	}

	args := text[2:]
	switch toUpper(text[0])<<8 | toUpper(text[1]) {
	case 'I'<<8 | 'N':
		return Command{Op: OpInitialize}, 0, true
	case 'S'<<8 | 'P':
		return Command{Op: OpSelectPen}, 0, true
	case 'P'<<8 | 'U':
		return p.withPoints(OpPenUp, args)
	case 'P'<<8 | 'D':
		return p.withPoints(OpPenDown, args)
	case 'P'<<8 | 'A':
		return p.withPoints(OpMoveTo, args)
	}
	return Command{}, UnknownOpcode, false
}

// withPoints parses a comma separated list of x,y pairs into p.points
func (p *Parser) withPoints(op Opcode, args []byte) (Command, SkipReason, bool) {
	if len(args) == 0 {
		return Command{Op: op}, 0, true
	}

	count := 0
	pos := 0
	for {
		x, next, ok := parseCoord(args, pos)
		if !ok || next >= len(args) || args[next] != ',' {
			return Command{}, BadCoordinates, false
		}
		y, end, ok := parseCoord(args, next+1)
		if !ok {
			return Command{}, BadCoordinates, false
		}
		if count == MaxPoints {
			return Command{}, TooManyPoints, false
		}
		p.points[count] = arm.Point{X: x, Y: y}
		count++

		if end == len(args) {
			break
		}
		if args[end] != ',' || end+1 == len(args) {
			return Command{}, BadCoordinates, false
		}
		pos = end + 1
	}
	return Command{Op: op, Points: p.points[:count]}, 0, true
}

// parseCoord reads a signed number starting at pos. A fractional part is
// accepted and truncated. Returns the value and the position after it.
func parseCoord(s []byte, pos int) (int64, int, bool) {
	if pos >= len(s) {
		return 0, pos, false
	}

	negative := false
	if s[pos] == '-' {
		negative = true
		pos++
	} else if s[pos] == '+' {
		pos++
	}

	start := pos
	var value int64
	for pos < len(s) && isDigit(s[pos]) {
		value = value*10 + int64(s[pos]-'0')
		if value > MaxCoord {
			return 0, pos, false
		}
		pos++
	}
	digits := pos - start

	if pos < len(s) && s[pos] == '.' {
		pos++
		for pos < len(s) && isDigit(s[pos]) {
			pos++
			digits++
		}
	}
	if digits == 0 {
		return 0, pos, false
	}

	if negative {
		value = -value
	}
	return value, pos, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// toUpper converts a byte to uppercase
func toUpper(c byte) uint16 {
	if c >= 'a' && c <= 'z' {
		return uint16(c - ('a' - 'A'))
	}
	return uint16(c)
}
