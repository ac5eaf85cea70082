package transmission

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/protocol/bits"
	"github.com/danmuck/bitsctl/internal/protocol/packet"
	"github.com/danmuck/bitsctl/internal/testutil/testlog"
)

func TestDecodeReport(t *testing.T) {
	testlog.Start(t)
	d := NewDecoder(packet.DefaultLimits(), zerolog.Nop())

	report, err := d.Decode("  A0016C880162017C3686B18A3D4780\n")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, uint64(31), report.VersionSum)
	assert.Equal(t, uint64(54), report.Value)
	assert.Equal(t, 7, report.PaddingBits)
	assert.Positive(t, report.Packets)
	assert.Equal(t, report.ParseTime+report.SumTime+report.EvalTime, report.Total())
}

func TestDecodeIDsAreUnique(t *testing.T) {
	d := NewDecoder(packet.DefaultLimits(), zerolog.Nop())
	a, err := d.Decode("D2FE28")
	require.NoError(t, err)
	b, err := d.Decode("D2FE28")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDecodeErrorCarriesOutcome(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	d := NewDecoder(packet.DefaultLimits(), zerolog.New(&buf))

	_, err := d.Decode("C200B40A8")
	require.Error(t, err)

	var decodeErr *Error
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, observability.OutcomeExhausted, decodeErr.Outcome)
	assert.ErrorIs(t, err, bits.ErrExhausted)
	assert.True(t, strings.Contains(buf.String(), decodeErr.ID.String()), "log should carry the decode id")
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, observability.OutcomeOK},
		{&bits.InvalidNibbleError{Offset: 1, Byte: 'x'}, observability.OutcomeInvalidInput},
		{fmt.Errorf("wrapped: %w", bits.ErrExhausted), observability.OutcomeExhausted},
		{&packet.GrammarError{Err: packet.ErrTooDeep}, observability.OutcomeLimit},
		{packet.ErrInputTooLarge, observability.OutcomeLimit},
		{&packet.ArityError{Op: packet.LessThan}, observability.OutcomeArity},
		{&packet.GrammarError{Err: packet.ErrFrameOverrun}, observability.OutcomeGrammar},
		{errors.New("other"), observability.OutcomeGrammar},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "%v", tc.err)
	}
}

func TestDecodeHonorsLimits(t *testing.T) {
	d := NewDecoder(packet.Limits{MaxInputNibbles: 4}, zerolog.Nop())
	_, err := d.Decode("C200B40A82")
	require.ErrorIs(t, err, packet.ErrInputTooLarge)
}
