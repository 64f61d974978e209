package pipeline

import (
	"github.com/grantline/grantline/pkg/collab"
	"github.com/grantline/grantline/pkg/proposal"
)

// Recompute normalizes raw rows and builds the collaboration index.
//
// The function is pure: the same rows always produce the same Data, and
// encoding the result twice yields identical bytes. Rejected rows are
// reported in input order; proposal.ErrDatasetEmpty is returned when no
// proposal survives normalization.
func Recompute(rows []proposal.Row) (*Data, error) {
	proposals, rejected, err := proposal.Normalize(rows)
	if err != nil {
		return nil, err
	}
	return &Data{
		Proposals: proposals,
		Rejected:  rejected,
		Index:     collab.Build(proposals),
	}, nil
}
