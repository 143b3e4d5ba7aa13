package ledger

import (
	"errors"
	"fmt"

	"github.com/okaytrev/softball-lineup/internal/domain"
)

var (
	// ErrInvalidInput covers unknown players, out-of-range values and a
	// missing batter selection. The ledger is unchanged when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorrectionConflict is returned by Record when the at-bat number
	// already holds a result. Callers confirm and then call ApplyCorrection.
	ErrCorrectionConflict = errors.New("at-bat already recorded")

	// ErrNoRecord is returned by ApplyCorrection when there is nothing to replace.
	ErrNoRecord = errors.New("no at-bat recorded")
)

type CorrectionConflictError struct {
	PlayerID   int
	PlayerName string
	Existing   domain.AtBatRecord
}

func (e *CorrectionConflictError) Error() string {
	return fmt.Sprintf("at-bat #%d for %s already recorded as %s",
		e.Existing.Number, e.PlayerName, e.Existing.Result.Label())
}

func (e *CorrectionConflictError) Unwrap() error {
	return ErrCorrectionConflict
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
