// Package transmission runs a full decode of one BITS transmission: parse,
// version sum and evaluation, with per-stage timing, logging and metrics.
package transmission

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/protocol/bits"
	"github.com/danmuck/bitsctl/internal/protocol/packet"
)

// Report is the result of one successful decode.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	VersionSum  uint64        `json:"version_sum"`
	Value       uint64        `json:"value"`
	Packets     int           `json:"packets"`
	PaddingBits int           `json:"padding_bits"`
	ParseTime   time.Duration `json:"parse_ns"`
	SumTime     time.Duration `json:"version_sum_ns"`
	EvalTime    time.Duration `json:"eval_ns"`
}

func (r Report) Total() time.Duration {
	return r.ParseTime + r.SumTime + r.EvalTime
}

// Error carries the decode id and outcome class of a failed decode.
type Error struct {
	ID      uuid.UUID
	Outcome string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s: %v", e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Decoder struct {
	Limits packet.Limits
	Logger zerolog.Logger
}

func NewDecoder(limits packet.Limits, logger zerolog.Logger) *Decoder {
	return &Decoder{Limits: limits, Logger: logger}
}

// Decode parses hex and runs both queries over the result. Surrounding
// whitespace is ignored; anything else outside the hex alphabet fails.
func (d *Decoder) Decode(hex string) (Report, error) {
	report := Report{ID: uuid.New()}
	logger := d.Logger.With().Str("decode_id", report.ID.String()).Logger()
	hex = strings.TrimSpace(hex)

	start := time.Now()
	msg, err := packet.ParseWithLimits(hex, d.Limits)
	report.ParseTime = time.Since(start)
	observability.RecordDecodeStage(observability.StageParse, report.ParseTime)
	if err != nil {
		return Report{}, d.fail(logger, report.ID, err)
	}
	report.Packets = msg.Len()
	report.PaddingBits = msg.Padding()

	start = time.Now()
	report.VersionSum = msg.VersionSum()
	report.SumTime = time.Since(start)
	observability.RecordDecodeStage(observability.StageVersionSum, report.SumTime)

	start = time.Now()
	report.Value, err = msg.Eval()
	report.EvalTime = time.Since(start)
	observability.RecordDecodeStage(observability.StageEval, report.EvalTime)
	if err != nil {
		return Report{}, d.fail(logger, report.ID, err)
	}

	observability.RecordDecode(observability.OutcomeOK, report.Packets)
	logger.Debug().
		Int("nibbles", len(hex)).
		Int("packets", report.Packets).
		Uint64("version_sum", report.VersionSum).
		Uint64("value", report.Value).
		Dur("total", report.Total()).
		Msg("transmission decoded")
	return report, nil
}

func (d *Decoder) fail(logger zerolog.Logger, id uuid.UUID, err error) error {
	outcome := Classify(err)
	observability.RecordDecode(outcome, 0)
	logger.Warn().Err(err).Str("outcome", outcome).Msg("transmission rejected")
	return &Error{ID: id, Outcome: outcome, Err: err}
}

// Classify maps a decode error onto an observability outcome label.
func Classify(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, bits.ErrInvalidNibble):
		return observability.OutcomeInvalidInput
	case errors.Is(err, bits.ErrExhausted):
		return observability.OutcomeExhausted
	case errors.Is(err, packet.ErrTooDeep),
		errors.Is(err, packet.ErrTooManyPackets),
		errors.Is(err, packet.ErrInputTooLarge):
		return observability.OutcomeLimit
	case errors.Is(err, packet.ErrArity):
		return observability.OutcomeArity
	default:
		return observability.OutcomeGrammar
	}
}
