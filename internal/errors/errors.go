// Package errors provides sentinel errors and error types for the chess
// platform. It defines common error conditions and structured error types
// that preserve context while allowing inspection with errors.Is() and
// errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoMatch indicates SAN text that matches no legal move.
	ErrNoMatch = errors.New("no matching move")

	// ErrAmbiguousMove indicates SAN text that matches several legal moves.
	ErrAmbiguousMove = errors.New("ambiguous move")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGameNotFound indicates an unknown game ID.
	ErrGameNotFound = errors.New("game not found")

	// ErrPlayerNotFound indicates an unknown or unregistered player.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrNotYourTurn indicates a move submitted by the side not to move.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrNotParticipant indicates an action on a game the player is not in.
	ErrNotParticipant = errors.New("not a participant")

	// ErrGameNotActive indicates an action on a game that is waiting or finished.
	ErrGameNotActive = errors.New("game not active")

	// ErrInvalidName indicates an empty or overlong player name.
	ErrInvalidName = errors.New("invalid player name")

	// ErrNotPermitted indicates an action the player's role does not allow,
	// such as Black starting the game.
	ErrNotPermitted = errors.New("action not permitted")

	// ErrClosed indicates work submitted after shutdown.
	ErrClosed = errors.New("closed")
)

// DecodeError reports a malformed FEN field. The input is rejected as a
// whole; no position is produced.
type DecodeError struct {
	Err   error  // The underlying error, usually ErrInvalidFEN
	Field string // FEN field name, e.g. "placement" or "castling"
	Value string // Offending text
}

// Error returns a formatted error message including all available context.
func (e *DecodeError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Value))
	}
	context := strings.Join(parts, " ")
	if e.Err == nil {
		return context
	}
	if context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, context)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IllegalMoveError reports a move that is not in the legal move list.
// The position it was tried against is unchanged.
type IllegalMoveError struct {
	Err    error  // The underlying error, usually ErrIllegalMove
	Move   string // The move as submitted
	Reason string // Short human readable cause
}

// Error returns a formatted error message including all available context.
func (e *IllegalMoveError) Error() string {
	msg := "illegal move"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Move != "" {
		msg += fmt.Sprintf(" %q", e.Move)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// ParseError represents SAN text that could not be resolved against the
// legal move list.
type ParseError struct {
	Err   error  // ErrNoMatch or ErrAmbiguousMove
	Input string // The SAN text
}

// Error returns a formatted error message with the offending input.
func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse error: %q", e.Input)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// GameError wraps errors with game context, including game ID,
// ply position, and move information. It implements the error interface
// and supports unwrapping via errors.Is() and errors.As().
type GameError struct {
	Err      error  // The underlying error
	GameID   string // Game identifier
	PlyNum   int    // Ply number where error occurred (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string

	if e.GameID != "" {
		parts = append(parts, fmt.Sprintf("game %s", e.GameID))
	}
	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")

	if e.Err != nil {
		if context == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, or nil if all are nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
