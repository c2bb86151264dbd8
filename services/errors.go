package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFile means the persisted table could not be parsed.
	ErrMalformedFile = errors.New("malformed data file")
	// ErrNoFeatures is returned when the feature selection is empty.
	ErrNoFeatures = errors.New("select at least one feature")
	// ErrInsufficientData means too few complete rows remain to train.
	ErrInsufficientData = errors.New("not enough complete rows to train")
	// ErrTargetInFeatures is returned when the target is also selected as a feature.
	ErrTargetInFeatures = errors.New("target column cannot also be a feature")
	// ErrUnknownColumn is returned when a requested column is not in the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidDepth is returned for a max depth below 1.
	ErrInvalidDepth = errors.New("max depth must be at least 1")
)

// MalformedFileError carries where the persisted table stopped parsing.
type MalformedFileError struct {
	Source string
	Line   int
	Err    error
}

func (e *MalformedFileError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrMalformedFile.Error()
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedFileError) Is(target error) bool { return target == ErrMalformedFile }

func (e *MalformedFileError) Unwrap() error { return e.Err }

// InsufficientDataError reports how many complete rows were found.
type InsufficientDataError struct {
	Complete int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: have %d, need %d", ErrInsufficientData.Error(), e.Complete, e.Required)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// UnknownColumnError names the missing column.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownColumn.Error(), e.Column)
}

func (e *UnknownColumnError) Unwrap() error { return ErrUnknownColumn }

// MinHistoryRows is the record count below which analytics views warn.
const MinHistoryRows = 10

// HistoryWarning is a non-fatal advisory shown when the diary is short.
type HistoryWarning struct {
	Records     int    `json:"records"`
	Recommended int    `json:"recommended"`
	Message     string `json:"message"`
}

// CheckHistory returns a warning when fewer than MinHistoryRows records exist.
func CheckHistory(records int) *HistoryWarning {
	if records >= MinHistoryRows {
		return nil
	}
	return &HistoryWarning{
		Records:     records,
		Recommended: MinHistoryRows,
		Message: fmt.Sprintf("You have %d days of data. At least %d days are recommended for a meaningful tree.",
			records, MinHistoryRows),
	}
}
