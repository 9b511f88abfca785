package mapguess

import (
	"errors"
	"fmt"
)

var (
	// ErrDataset classifies every catalog construction failure.
	ErrDataset = errors.New("invalid dataset")

	ErrInvalidSettings = errors.New("invalid settings")

	ErrNotStarted     = errors.New("game not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrRoundLocked    = errors.New("round already locked")
	ErrNoPendingGuess = errors.New("no pending guess")
	ErrRoundActive    = errors.New("round still active")
	ErrGameOver       = errors.New("game is over")
)

// DatasetError describes why a dataset could not become a catalog.
type DatasetError struct {
	Reason string
	Err    error
}

func (e *DatasetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDataset, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDataset, e.Reason)
}

func (e *DatasetError) Unwrap() error { return e.Err }

func (e *DatasetError) Is(target error) bool { return target == ErrDataset }

func NewDatasetError(reason string, err error) error {
	return &DatasetError{Reason: reason, Err: err}
}

func errInvalidSettings(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSettings, msg)
}
