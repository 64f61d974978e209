package proposal

import "errors"

// ErrDatasetEmpty is returned by [Normalize] when no row survives
// normalization. This is a terminal condition for the input, not a crash:
// callers keep their previous state and ask for new data.
var ErrDatasetEmpty = errors.New("dataset contains no usable proposals")

// RejectReason identifies why a single row was skipped during normalization.
type RejectReason string

const (
	// RejectUnparseableDate marks rows whose submission date resolved to
	// no year through any step of the resolution ladder.
	RejectUnparseableDate RejectReason = "unparseable_date"

	// RejectYearOutOfRange marks rows whose resolved year falls outside
	// [MinYear, MaxYear]. This usually means a serial/year confusion in
	// the source data rather than a genuinely historic proposal.
	RejectYearOutOfRange RejectReason = "year_out_of_range"

	// RejectMissingField marks rows lacking a required identity field
	// (proposal number or PI name). Detail names the field.
	RejectMissingField RejectReason = "missing_field"
)

// RejectedRow records one skipped input row. Rejections are collected in
// input order so reports are stable across runs.
type RejectedRow struct {
	// Ordinal is the 1-based position of the row in the input.
	Ordinal int `json:"ordinal"`
	// ProposalID is the row's proposal number, when present.
	ProposalID string `json:"proposal_id,omitempty"`
	// Reason classifies the rejection.
	Reason RejectReason `json:"reason"`
	// Detail carries the offending raw value or field name.
	Detail string `json:"detail,omitempty"`
}
