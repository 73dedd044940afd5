package wikiquery

// flagValue is written by parameters that take no argument.
const flagValue = "true"

// subQuery is the part every sub-query builder shares: a handle on the
// owning Query's table and the multi-value append rule.
type subQuery struct {
	params Params
}

func (s subQuery) add(key, value string) {
	s.params.Append(key, value)
}
