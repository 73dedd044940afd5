package wikiquery

const (
	listAllCategories = "allcategories"

	paramACFrom     = "acfrom"
	paramACTo       = "acto"
	paramACProp     = "acprop"
	paramACMin      = "acmin"
	paramACMax      = "acmax"
	paramACLimit    = "aclimit"
	paramACPrefix   = "acprefix"
	paramACDir      = "acdir"
	paramACContinue = "accontinue"
)

// AllCategoriesQuery configures a list=allcategories sub-query.
// See https://www.mediawiki.org/wiki/API:Allcategories.
//
//	q.AllCategories().
//		ACFrom("Lists_of_colors").
//		ACProp("size").
//		ACMin("1").
//		ACLimit("5")
type AllCategoriesQuery struct {
	subQuery
}

func newAllCategoriesQuery(params Params) *AllCategoriesQuery {
	q := &AllCategoriesQuery{subQuery{params: params}}
	q.add(paramList, listAllCategories)
	return q
}

// ACFrom starts the listing at this category name. Escape titles first.
func (q *AllCategoriesQuery) ACFrom(value string) *AllCategoriesQuery {
	q.add(paramACFrom, value)
	return q
}

// ACTo stops the listing at this category name.
func (q *AllCategoriesQuery) ACTo(value string) *AllCategoriesQuery {
	q.add(paramACTo, value)
	return q
}

// ACProp requests an extra property; call it once per property.
func (q *AllCategoriesQuery) ACProp(value string) *AllCategoriesQuery {
	q.add(paramACProp, value)
	return q
}

// ACMin skips categories with fewer members.
func (q *AllCategoriesQuery) ACMin(value string) *AllCategoriesQuery {
	q.add(paramACMin, value)
	return q
}

// ACMax skips categories with more members.
func (q *AllCategoriesQuery) ACMax(value string) *AllCategoriesQuery {
	q.add(paramACMax, value)
	return q
}

// ACLimit caps categories per round; "max" asks for the server limit.
func (q *AllCategoriesQuery) ACLimit(value string) *AllCategoriesQuery {
	q.add(paramACLimit, value)
	return q
}

// ACPrefix keeps only categories starting with value. Escape titles first.
func (q *AllCategoriesQuery) ACPrefix(value string) *AllCategoriesQuery {
	q.add(paramACPrefix, value)
	return q
}

// ACDir sets the sort direction, "ascending" or "descending".
func (q *AllCategoriesQuery) ACDir(value string) *AllCategoriesQuery {
	q.add(paramACDir, value)
	return q
}

// ACContinue resumes the listing from a server continuation token.
func (q *AllCategoriesQuery) ACContinue(value string) *AllCategoriesQuery {
	q.add(paramACContinue, value)
	return q
}
