package proposal

import (
	"strconv"
	"strings"
)

// Normalize converts raw rows into deduplicated proposals.
//
// Per row, the submission date is resolved first; rows with no resolvable
// year or a year outside [MinYear, MaxYear] are skipped and recorded.
// Surviving rows group by proposal number: the first one creates the
// Proposal and fixes its title, theme, sponsor, year, and date, and each
// row (first included) appends one PIContribution. Numeric fields strip
// currency symbols and separators and silently default to 0 when
// unparseable; that is a documented normalization, not an error.
//
// Proposals are returned in first-appearance order of their number and
// rejections in input order, so identical input always produces identical
// output. Normalize returns ErrDatasetEmpty when nothing survives.
func Normalize(rows []Row) ([]*Proposal, []RejectedRow, error) {
	byID := make(map[string]*Proposal)
	proposals := make([]*Proposal, 0, len(rows))
	var rejected []RejectedRow

	for i, row := range rows {
		ordinal := i + 1
		if row.IsBlank() {
			continue
		}

		id := row.ProposalID.Text()
		if id == "" {
			rejected = append(rejected, RejectedRow{
				Ordinal: ordinal,
				Reason:  RejectMissingField,
				Detail:  "proposal_no",
			})
			continue
		}

		name := row.PI.Text()
		if name == "" {
			rejected = append(rejected, RejectedRow{
				Ordinal:    ordinal,
				ProposalID: id,
				Reason:     RejectMissingField,
				Detail:     "PI",
			})
			continue
		}

		year, date, hasDate, ok := resolveDate(row.DateSubmitted)
		if !ok {
			rejected = append(rejected, RejectedRow{
				Ordinal:    ordinal,
				ProposalID: id,
				Reason:     RejectUnparseableDate,
				Detail:     row.DateSubmitted.Text(),
			})
			continue
		}
		if year < MinYear || year > MaxYear {
			rejected = append(rejected, RejectedRow{
				Ordinal:    ordinal,
				ProposalID: id,
				Reason:     RejectYearOutOfRange,
				Detail:     strconv.Itoa(year),
			})
			continue
		}

		p, exists := byID[id]
		if !exists {
			p = &Proposal{
				ID:      id,
				Title:   row.Title.Text(),
				Theme:   themeOrDefault(row.Theme),
				Sponsor: row.Sponsor.Text(),
				Year:    year,
			}
			if hasDate {
				p.Date = date
			}
			byID[id] = p
			proposals = append(proposals, p)
		}

		p.PIs = append(p.PIs, PIContribution{
			Name:   name,
			Credit: numericValue(row.Credit),
			First:  numericValue(row.First),
			Total:  numericValue(row.Total),
		})
	}

	if len(proposals) == 0 {
		return nil, rejected, ErrDatasetEmpty
	}
	return proposals, rejected, nil
}

func themeOrDefault(c Cell) string {
	if t := c.Text(); t != "" {
		return t
	}
	return DefaultTheme
}

// numericValue extracts a float from a money-like cell. String values may
// carry currency symbols, thousands separators, and stray whitespace.
// Anything that still fails to parse becomes 0.
func numericValue(c Cell) float64 {
	switch c.Kind {
	case CellNumber:
		return c.Num
	case CellString:
		s := strings.Map(dropMoneyNoise, c.Str)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func dropMoneyNoise(r rune) rune {
	switch r {
	case '$', '€', '£', '¥', ',', ' ', '\t', ' ':
		return -1
	}
	return r
}
