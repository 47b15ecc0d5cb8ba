package engine

import "errors"

// Sentinel errors for every failure kind named in the engine's contract.
// Callers compare with errors.Is; none of these carry state beyond the
// sentinel itself, so a wrapping %w is always sufficient context.
var (
	ErrInvalidStopWord  = errors.New("stop word contains special characters")
	ErrNegativeID       = errors.New("document id must not be negative")
	ErrDuplicateID      = errors.New("document id already exists")
	ErrInvalidWord      = errors.New("document word contains special characters")
	ErrEmptyQueryWord   = errors.New("query word is empty")
	ErrInvalidCharacter = errors.New("query contains special characters")
	ErrDoubleMinus      = errors.New("query word starts with double minus")
	ErrTrailingMinus    = errors.New("query word is a lone minus")
	ErrUnknownID        = errors.New("unknown document id")
)
