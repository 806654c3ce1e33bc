package conferences

// Candidate is a record selected for enrichment together with the fields
// it is missing. Index points back into the record slice it was selected
// from, so an applied update lands on the right row.
type Candidate struct {
	Index      int      `json:"index"`
	Conference `json:"conference"`
	Missing    []string `json:"missing_fields"`
}

// SelectIncomplete returns the records that still have missing tracked
// fields, in input order, capped at batchLimit. A batchLimit <= 0 means
// no cap. Input order is preserved so repeated runs are deterministic and
// resumable.
func SelectIncomplete(records []Conference, batchLimit int) []Candidate {
	var out []Candidate
	for i, rec := range records {
		missing := rec.MissingFields()
		if len(missing) == 0 {
			continue
		}
		out = append(out, Candidate{
			Index:      i,
			Conference: rec,
			Missing:    missing,
		})
		if batchLimit > 0 && len(out) >= batchLimit {
			break
		}
	}
	return out
}
