// Package proposal normalizes raw tabular proposal records into the
// entities the rest of the pipeline consumes.
//
// # Architecture
//
// Input arrives as [Row] values whose fields are [Cell] variants (date,
// number, string, or empty), mirroring what spreadsheet-like sources
// actually deliver. [Normalize] resolves a submission year for every row,
// groups rows by proposal number, and produces deduplicated [Proposal]
// entities carrying one [PIContribution] per input row.
//
// Rows that cannot be normalized are never fatal: they are skipped and
// recorded as [RejectedRow] values in input order, so callers can surface
// them as warnings.
//
// # Date Resolution
//
// Each row's submission date is resolved by trying, in order: a native
// date cell, a spreadsheet serial number, an ISO-style date string, a
// US-style date string, a small ladder of common date formats, and finally
// a bare 4-digit year token. The first successful step wins. Rows whose
// resolved year falls outside [MinYear, MaxYear] are rejected.
//
// # Usage
//
//	proposals, rejected, err := proposal.Normalize(rows)
//	if err != nil {
//	    // no usable proposals at all
//	}
//	for _, rr := range rejected {
//	    log.Warn("skipped row", "ordinal", rr.Ordinal, "reason", rr.Reason)
//	}
package proposal
