package wikiquery

const (
	listCategoryMembers = "categorymembers"

	paramCMTitle              = "cmtitle"
	paramCMPageID             = "cmpageid"
	paramCMProp               = "cmprop"
	paramCMType               = "cmtype"
	paramCMLimit              = "cmlimit"
	paramCMSort               = "cmsort"
	paramCMDir                = "cmdir"
	paramCMStart              = "cmstart"
	paramCMEnd                = "cmend"
	paramCMStartHexSortKey    = "cmstarthexsortkey"
	paramCMEndHexSortKey      = "cmendhexsortkey"
	paramCMStartSortKeyPrefix = "cmstartsortkeyprefix"
	paramCMEndSortKeyPrefix   = "cmendsortkeyprefix"
	paramCMContinue           = "cmcontinue"
)

// CategoryMembersQuery configures a list=categorymembers sub-query.
// See https://www.mediawiki.org/wiki/API:Categorymembers.
//
//	q.CategoryMembers().
//		CMTitle("Category:Lists_of_colors").
//		CMProp("ids").
//		CMProp("type").
//		CMType("page").
//		CMLimit("100")
type CategoryMembersQuery struct {
	subQuery
}

func newCategoryMembersQuery(params Params) *CategoryMembersQuery {
	q := &CategoryMembersQuery{subQuery{params: params}}
	q.add(paramList, listCategoryMembers)
	return q
}

// CMTitle names the category to list, namespace included. The value is
// sent as given, so escape it with Escape.
func (q *CategoryMembersQuery) CMTitle(value string) *CategoryMembersQuery {
	q.add(paramCMTitle, value)
	return q
}

// CMPageID selects the category by page id instead of title.
func (q *CategoryMembersQuery) CMPageID(value string) *CategoryMembersQuery {
	q.add(paramCMPageID, value)
	return q
}

// CMProp requests an extra property; call it once per property.
func (q *CategoryMembersQuery) CMProp(value string) *CategoryMembersQuery {
	q.add(paramCMProp, value)
	return q
}

// CMType filters members by kind: page, subcat or file.
func (q *CategoryMembersQuery) CMType(value string) *CategoryMembersQuery {
	q.add(paramCMType, value)
	return q
}

// CMLimit caps members per round; "max" asks for the server limit.
func (q *CategoryMembersQuery) CMLimit(value string) *CategoryMembersQuery {
	q.add(paramCMLimit, value)
	return q
}

// CMSort orders by "sortkey" or "timestamp".
func (q *CategoryMembersQuery) CMSort(value string) *CategoryMembersQuery {
	q.add(paramCMSort, value)
	return q
}

// CMDir sets the sort direction.
func (q *CategoryMembersQuery) CMDir(value string) *CategoryMembersQuery {
	q.add(paramCMDir, value)
	return q
}

// CMStart sets the first timestamp of a timestamp-sorted listing.
func (q *CategoryMembersQuery) CMStart(value string) *CategoryMembersQuery {
	q.add(paramCMStart, value)
	return q
}

// CMEnd sets the last timestamp.
func (q *CategoryMembersQuery) CMEnd(value string) *CategoryMembersQuery {
	q.add(paramCMEnd, value)
	return q
}

// CMStartHexSortKey starts a sortkey listing at a raw hex sort key.
func (q *CategoryMembersQuery) CMStartHexSortKey(value string) *CategoryMembersQuery {
	q.add(paramCMStartHexSortKey, value)
	return q
}

// CMEndHexSortKey ends a sortkey listing at a raw hex sort key.
func (q *CategoryMembersQuery) CMEndHexSortKey(value string) *CategoryMembersQuery {
	q.add(paramCMEndHexSortKey, value)
	return q
}

// CMStartSortKeyPrefix starts a sortkey listing at a readable prefix.
func (q *CategoryMembersQuery) CMStartSortKeyPrefix(value string) *CategoryMembersQuery {
	q.add(paramCMStartSortKeyPrefix, value)
	return q
}

// CMEndSortKeyPrefix ends a sortkey listing before a readable prefix.
func (q *CategoryMembersQuery) CMEndSortKeyPrefix(value string) *CategoryMembersQuery {
	q.add(paramCMEndSortKeyPrefix, value)
	return q
}

// CMContinue resumes the listing from a server continuation token.
func (q *CategoryMembersQuery) CMContinue(value string) *CategoryMembersQuery {
	q.add(paramCMContinue, value)
	return q
}
