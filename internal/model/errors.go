package model

import (
	"errors"
	"net/http"
)

// Sentinel errors for every failure the payment pipeline can produce.
// Components return these (optionally wrapped with %w) and the handler maps
// them to a stable classification and HTTP status.
var (
	// Input
	ErrUnsupportedChain = errors.New("unsupported payment chain")
	ErrInvalidAddress   = errors.New("invalid address")

	// Verification
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrReceiverNotInvolved = errors.New("receiver address not present in transaction")
	ErrNoNetPayment        = errors.New("no net payment received by receiver")

	// Replay guard
	ErrAlreadyProcessed = errors.New("payment reference already processed")

	// Oracle
	ErrOracleUnavailable = errors.New("price feed unavailable")

	// Allocation
	ErrAllocationTooSmall = errors.New("payment too small for one whole token")
	ErrZeroAllocation     = errors.New("allocation must be at least one token")

	// Distribution
	ErrSubmissionFailed    = errors.New("distribution transaction rejected by network")
	ErrConfirmationTimeout = errors.New("distribution submitted but confirmation not observed")
)

// Classification is the stable, client-facing failure category.
type Classification string

const (
	ClassInput               Classification = "input_error"
	ClassVerification        Classification = "verification_error"
	ClassAlreadyProcessed    Classification = "already_processed"
	ClassOracle              Classification = "oracle_error"
	ClassAllocation          Classification = "allocation_error"
	ClassDistribution        Classification = "distribution_error"
	ClassDistributionUnknown Classification = "distribution_status_unknown"
	ClassInternal            Classification = "internal_error"
)

// Classify buckets an error into its taxonomy class. A confirmation timeout
// is kept distinct from a plain distribution failure: the transfer may have
// landed despite the timeout, and the remediation (manual reconciliation)
// differs from a clean rejection.
func Classify(err error) Classification {
	switch {
	case errors.Is(err, ErrUnsupportedChain), errors.Is(err, ErrInvalidAddress):
		return ClassInput
	case errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrReceiverNotInvolved),
		errors.Is(err, ErrNoNetPayment):
		return ClassVerification
	case errors.Is(err, ErrAlreadyProcessed):
		return ClassAlreadyProcessed
	case errors.Is(err, ErrOracleUnavailable):
		return ClassOracle
	case errors.Is(err, ErrAllocationTooSmall), errors.Is(err, ErrZeroAllocation):
		return ClassAllocation
	case errors.Is(err, ErrConfirmationTimeout):
		return ClassDistributionUnknown
	case errors.Is(err, ErrSubmissionFailed):
		return ClassDistribution
	default:
		return ClassInternal
	}
}

// HTTPStatus maps a classification to the response status code.
func HTTPStatus(c Classification) int {
	switch c {
	case ClassInput, ClassVerification, ClassAllocation:
		return http.StatusBadRequest
	case ClassAlreadyProcessed:
		return http.StatusConflict
	case ClassOracle, ClassDistribution, ClassDistributionUnknown:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
