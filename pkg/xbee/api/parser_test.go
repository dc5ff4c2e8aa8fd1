package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type parserTestStep struct {
	in     []byte
	status ParseStatus
	frame  RawFrame
	reason *FramingReason
}

type parserTestStepsBuilder struct {
	steps []parserTestStep
}

func parserTestSteps() *parserTestStepsBuilder {
	return &parserTestStepsBuilder{}
}

func (b *parserTestStepsBuilder) on(in ...byte) *parserTestStepsBuilder {
	b.steps = append(b.steps, parserTestStep{in: in, status: Incomplete})
	return b
}

func (b *parserTestStepsBuilder) last() *parserTestStep {
	return &b.steps[len(b.steps)-1]
}

func (b *parserTestStepsBuilder) complete(frame ...byte) *parserTestStepsBuilder {
	s := b.last()
	s.status, s.frame = Complete, RawFrame(frame)
	if frame == nil {
		s.frame = RawFrame{}
	}
	return b
}

func (b *parserTestStepsBuilder) invalid(reason FramingReason) *parserTestStepsBuilder {
	s := b.last()
	s.status, s.reason = Invalid, &reason
	return b
}

func (b *parserTestStepsBuilder) restarted() *parserTestStepsBuilder {
	reason := ReasonRestart
	b.last().reason = &reason
	return b
}

func (b *parserTestStepsBuilder) build() []parserTestStep {
	return b.steps
}

func zeros(n int) []byte {
	return make([]byte, n)
}

func TestAssembler(t *testing.T) {
	testCases := []struct {
		name  string
		steps []parserTestStep
	}{
		{
			name: "single byte frame",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x01, 0x00, 0xff).complete(0x00).
				build(),
		},
		{
			name: "invalid followed by valid",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x01, 0x00, 0xfa).invalid(ReasonChecksum).
				on(0x7e, 0x00, 0x01, 0x05, 0xfa).complete(0x05).
				build(),
		},
		{
			name: "escaped payload",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x04, 0x7d, 0x5e, 0x7d, 0x5d, 0x7d, 0x31, 0x7d, 0x33, 0xe0).complete(0x7e, 0x7d, 0x11, 0x13).
				build(),
		},
		{
			name: "zero length",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x00, 0xff).complete().
				build(),
		},
		{
			name: "escaped length",
			steps: parserTestSteps().
				on(append(append([]byte{0x7e, 0x00, 0x7d, 0x31}, zeros(0x11)...), 0xff)...).complete(zeros(0x11)...).
				build(),
		},
		{
			name: "escaped checksum",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x01, 0x81, 0x7d, 0x5e).complete(0x81).
				build(),
		},
		{
			name: "skip noise between frames",
			steps: parserTestSteps().
				on(0x01, 0x02, 0xff, 0x7d, 0x5e).
				on(0x7e, 0x00, 0x01, 0x05, 0xfa).complete(0x05).
				on(0x00, 0x13).
				on(0x7e, 0x00, 0x01, 0x00, 0xff).complete(0x00).
				build(),
		},
		{
			name: "start delimiter in payload",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x05, 0x01, 0x02).
				on(0x7e).restarted().
				on(0x00, 0x01, 0x05, 0xfa).complete(0x05).
				build(),
		},
		{
			name: "start delimiter in length",
			steps: parserTestSteps().
				on(0x7e, 0x00).
				on(0x7e).restarted().
				on(0x00, 0x01, 0x05, 0xfa).complete(0x05).
				build(),
		},
		{
			name: "start delimiter at checksum",
			steps: parserTestSteps().
				on(0x7e, 0x00, 0x01, 0x05).
				on(0x7e).restarted().
				on(0x00, 0x01, 0x05, 0xfa).complete(0x05).
				build(),
		},
		{
			name: "declared length overrun",
			steps: parserTestSteps().
				on(0x7e, 0x10, 0x01).invalid(ReasonOverrun).
				on(0x01, 0x02, 0x03).
				on(0x7e, 0x00, 0x01, 0x05, 0xfa).complete(0x05).
				build(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a Assembler
			for n, s := range tc.steps {
				var pr ParseResult
				for i, b := range s.in {
					pr = a.Parse(b)
					if i+1 < len(s.in) {
						require.Equalf(t, Incomplete, pr.Status, "step[%d][%d] status", n, i)
						require.NoErrorf(t, pr.Err, "step[%d][%d] error", n, i)
					}
				}
				require.Equalf(t, s.status, pr.Status, "step[%d] final status", n)
				require.Equalf(t, s.frame, pr.Frame, "step[%d] final frame", n)
				if s.reason == nil {
					require.NoErrorf(t, pr.Err, "step[%d] final error", n)
					continue
				}
				var fe *FramingError
				require.Truef(t, errors.As(pr.Err, &fe), "step[%d] framing error expected, got %v", n, pr.Err)
				require.Equalf(t, *s.reason, fe.Reason, "step[%d] reason", n)
			}
			require.Equal(t, StateIdle, a.State())
		})
	}
}

func TestAssemblerStates(t *testing.T) {
	var a Assembler
	require.Equal(t, StateIdle, a.State())
	a.Parse(0x7e)
	require.Equal(t, StateLength, a.State())
	a.Parse(0x00)
	require.Equal(t, StateLength, a.State())
	a.Parse(0x02)
	require.Equal(t, StatePayload, a.State())
	a.Parse(0x01)
	require.Equal(t, StatePayload, a.State())
	require.Equal(t, 1, a.Buffered())
	a.Parse(0x7d)
	require.Equal(t, StatePayload, a.State())
	a.Parse(0x31)
	require.Equal(t, StateChecksum, a.State())
	pr := a.Parse(0xff - 0x01 - 0x11)
	require.Equal(t, Complete, pr.Status)
	require.Equal(t, RawFrame{0x01, 0x11}, pr.Frame)
	require.Equal(t, StateIdle, a.State())

	a.Parse(0x7e)
	a.Parse(0x00)
	a.Reset()
	require.Equal(t, StateIdle, a.State())
	require.Equal(t, 0, a.Buffered())
}

func TestAssemblerFeed(t *testing.T) {
	var a Assembler
	results := a.Feed([]byte{0x7e, 0x00, 0x01, 0x7d})
	require.Empty(t, results)
	results = a.Feed([]byte{0x5e, 0x81, 0x7e, 0x00, 0x01, 0x00, 0xfa, 0x7e, 0x00})
	require.Len(t, results, 2)
	require.Equal(t, Complete, results[0].Status)
	require.Equal(t, RawFrame{0x7e}, results[0].Frame)
	require.Equal(t, Invalid, results[1].Status)
	results = a.Feed([]byte{0x7e})
	require.Len(t, results, 1)
	require.Equal(t, Incomplete, results[0].Status)
	require.Error(t, results[0].Err)
}

func TestAssemblerMaxFrameLength(t *testing.T) {
	a := NewAssembler(4)
	results := a.Feed([]byte{0x7e, 0x00, 0x05})
	require.Len(t, results, 1)
	require.Equal(t, Invalid, results[0].Status)
	results = a.Feed([]byte{0x7e, 0x00, 0x04, 1, 2, 3, 4, 0xff - 10})
	require.Len(t, results, 1)
	require.Equal(t, Complete, results[0].Status)
	require.Equal(t, RawFrame{1, 2, 3, 4}, results[0].Frame)
}

func TestAssemblerFramesAreNotShared(t *testing.T) {
	var a Assembler
	first := a.Feed([]byte{0x7e, 0x00, 0x01, 0x05, 0xfa})[0].Frame
	second := a.Feed([]byte{0x7e, 0x00, 0x01, 0x06, 0xf9})[0].Frame
	require.Equal(t, RawFrame{0x05}, first)
	require.Equal(t, RawFrame{0x06}, second)
}

func TestRawFrame(t *testing.T) {
	require.Equal(t, FrameType(0), RawFrame(nil).Type())
	require.Nil(t, RawFrame(nil).Data())
	f := RawFrame{0x90, 1, 2}
	require.Equal(t, TypeReceivePacket, f.Type())
	require.Equal(t, []byte{1, 2}, f.Data())
}
