package wikiquery

const (
	paramTitles  = "titles"
	paramPageIDs = "pageids"

	propInfo        = "info"
	propDescription = "description"
	propExtracts    = "extracts"

	paramINProp              = "inprop"
	paramINTestActions       = "intestactions"
	paramINTestActionsDetail = "intestactionsdetail"
	paramINContinue          = "incontinue"

	paramDescPreferSource = "descprefersource"
	paramDescContinue     = "desccontinue"

	paramEXChars         = "exchars"
	paramEXSentences     = "exsentences"
	paramEXLimit         = "exlimit"
	paramEXIntro         = "exintro"
	paramEXPlainText     = "explaintext"
	paramEXSectionFormat = "exsectionformat"
	paramEXContinue      = "excontinue"
)

// PagesQuery configures a page set and the props requested for it. Select
// pages with Titles or PageIDs, then attach any combination of Info,
// Description and Extracts. Each prop area writes its own prefixed
// parameters, so they can be combined on the same page set.
//
//	q.Pages().
//		Titles("United%20States").
//		Info().INProp("url").INProp("displaytitle").
//		Extracts().EXChars("100").EXPlainText()
type PagesQuery struct {
	subQuery
}

func newPagesQuery(params Params) *PagesQuery {
	return &PagesQuery{subQuery{params: params}}
}

// Titles adds titles to the page set; call it once per title.
func (q *PagesQuery) Titles(value string) *PagesQuery {
	q.add(paramTitles, value)
	return q
}

// PageIDs adds page ids to the page set; call it once per id.
func (q *PagesQuery) PageIDs(value string) *PagesQuery {
	q.add(paramPageIDs, value)
	return q
}

// Info adds prop=info.
// See https://www.mediawiki.org/wiki/API:Info.
func (q *PagesQuery) Info() *PagesQuery {
	q.add(paramProp, propInfo)
	return q
}

// INProp requests an extra info property; call it once per property.
func (q *PagesQuery) INProp(value string) *PagesQuery {
	q.add(paramINProp, value)
	return q
}

// INTestActions asks whether the current user may perform the action.
func (q *PagesQuery) INTestActions(value string) *PagesQuery {
	q.add(paramINTestActions, value)
	return q
}

// INTestActionsDetail selects the shape of the actions map: "boolean",
// "full" or "quick".
func (q *PagesQuery) INTestActionsDetail(value string) *PagesQuery {
	q.add(paramINTestActionsDetail, value)
	return q
}

// INContinue resumes from a server continuation token.
func (q *PagesQuery) INContinue(value string) *PagesQuery {
	q.add(paramINContinue, value)
	return q
}

// Description adds prop=description.
// See https://www.mediawiki.org/wiki/API:Description.
func (q *PagesQuery) Description() *PagesQuery {
	q.add(paramProp, propDescription)
	return q
}

// DescPreferSource picks "local" or "central" descriptions first.
func (q *PagesQuery) DescPreferSource(value string) *PagesQuery {
	q.add(paramDescPreferSource, value)
	return q
}

// DescContinue resumes from a server continuation token.
func (q *PagesQuery) DescContinue(value string) *PagesQuery {
	q.add(paramDescContinue, value)
	return q
}

// Extracts adds prop=extracts.
// See https://www.mediawiki.org/wiki/Extension:TextExtracts#API.
func (q *PagesQuery) Extracts() *PagesQuery {
	q.add(paramProp, propExtracts)
	return q
}

// EXChars truncates extracts to about this many characters.
func (q *PagesQuery) EXChars(value string) *PagesQuery {
	q.add(paramEXChars, value)
	return q
}

// EXSentences truncates extracts to this many sentences.
func (q *PagesQuery) EXSentences(value string) *PagesQuery {
	q.add(paramEXSentences, value)
	return q
}

// EXLimit caps how many pages get an extract.
func (q *PagesQuery) EXLimit(value string) *PagesQuery {
	q.add(paramEXLimit, value)
	return q
}

// EXIntro limits extracts to the content before the first section.
func (q *PagesQuery) EXIntro() *PagesQuery {
	q.add(paramEXIntro, flagValue)
	return q
}

// EXPlainText returns extracts as plain text instead of HTML.
func (q *PagesQuery) EXPlainText() *PagesQuery {
	q.add(paramEXPlainText, flagValue)
	return q
}

// EXSectionFormat controls headings in plain-text extracts.
func (q *PagesQuery) EXSectionFormat(value string) *PagesQuery {
	q.add(paramEXSectionFormat, value)
	return q
}

// EXContinue resumes from a server continuation token.
func (q *PagesQuery) EXContinue(value string) *PagesQuery {
	q.add(paramEXContinue, value)
	return q
}
