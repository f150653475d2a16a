package stellar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBusy is returned when a payment is started while another is in flight
	ErrBusy = errors.New("payment already in progress")
	// ErrNotConnected means no signer address is active
	ErrNotConnected = errors.New("wallet not connected")
	// ErrNetworkSwitched aborts an attempt whose network changed before signing or submission
	ErrNetworkSwitched = errors.New("network switched during payment")
	// ErrCooldown is wrapped with the remaining wait time
	ErrCooldown = errors.New("cooldown active")
	// ErrSourceNotFound means the paying account has no ledger entry yet
	ErrSourceNotFound = errors.New("source account not found")
)

// ValidationKind tells which payment field failed validation
type ValidationKind string

const (
	InvalidDestination ValidationKind = "invalid_destination"
	InvalidAmount      ValidationKind = "invalid_amount"
)

// ValidationError is a bad destination or amount, reported before any network call
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string {
	field := "destination"
	if e.Kind == InvalidAmount {
		field = "amount"
	}
	return fmt.Sprintf("invalid %s: %s", field, e.Reason)
}

// IsValidationError checks if error is ValidationError
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// FetchError means the account state read failed for a reason other than "not found"
type FetchError struct {
	Address string
	Network string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch account %s on %s: %v", e.Address, e.Network, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError checks if error is FetchError
func IsFetchError(err error) bool {
	var e *FetchError
	return errors.As(err, &e)
}

// SignerRejection covers every signer failure: declined, locked, unavailable or wrong network
type SignerRejection struct {
	Reason string
	Err    error
}

func (e *SignerRejection) Error() string {
	return fmt.Sprintf("signer rejected: %s", e.Reason)
}

func (e *SignerRejection) Unwrap() error {
	return e.Err
}

// IsSignerRejection checks if error is SignerRejection
func IsSignerRejection(err error) bool {
	var e *SignerRejection
	return errors.As(err, &e)
}

// SubmissionKind classifies why a signed envelope did not make it into the ledger
type SubmissionKind string

const (
	SubmissionPrecondition SubmissionKind = "precondition"
	SubmissionUnreachable  SubmissionKind = "unreachable"
	SequenceConflict       SubmissionKind = "sequence_conflict"
	InsufficientBalance    SubmissionKind = "insufficient_balance"
	MalformedEnvelope      SubmissionKind = "malformed"
	EnvelopeExpired        SubmissionKind = "expired"
	SubmissionRejected     SubmissionKind = "rejected"
)

// SubmissionError is a terminal submission failure. Never retried.
type SubmissionError struct {
	Kind   SubmissionKind
	Codes  []string // network result codes, when the network answered
	Detail string
	Err    error
}

func (e *SubmissionError) Error() string {
	msg := fmt.Sprintf("submission failed (%s)", e.Kind)
	if len(e.Codes) > 0 {
		msg += ": " + strings.Join(e.Codes, ", ")
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsSubmissionError checks if error is SubmissionError
func IsSubmissionError(err error) bool {
	var e *SubmissionError
	return errors.As(err, &e)
}

// SubmissionErrorKind returns the kind of a SubmissionError in err's chain, or "".
func SubmissionErrorKind(err error) SubmissionKind {
	var e *SubmissionError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrorCode maps an error to the stable code used in API error bodies and metrics.
func ErrorCode(err error) string {
	var (
		validation *ValidationError
		submission *SubmissionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return string(validation.Kind)
	case errors.As(err, &submission):
		return "submission_" + string(submission.Kind)
	case IsSignerRejection(err):
		return "signer_rejected"
	case IsFetchError(err):
		return "fetch_failed"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrNotConnected):
		return "not_connected"
	case errors.Is(err, ErrNetworkSwitched):
		return "network_switched"
	case errors.Is(err, ErrCooldown):
		return "cooldown"
	case errors.Is(err, ErrSourceNotFound):
		return "account_not_found"
	default:
		return "internal"
	}
}
