package wikiquery

// Response is a decoded action=query reply.
type Response struct {
	BatchComplete bool           `json:"batchcomplete"`
	Query         QueryBlock     `json:"query"`
	Continue      *ContinueBlock `json:"continue,omitempty"`
	Warnings      *WarningBlock  `json:"warnings,omitempty"`
}

// Complete reports whether no continuation is pending.
func (r *Response) Complete() bool {
	return r.Continue == nil
}

// QueryBlock carries one collection per requested list or prop. A nil
// slice means the module was not part of the request.
type QueryBlock struct {
	Pages           []Page           `json:"pages,omitempty"`
	AllCategories   []Category       `json:"allcategories,omitempty"`
	CategoryMembers []CategoryMember `json:"categorymembers,omitempty"`
}

// WarningBlock holds the warnings of whichever modules produced one.
type WarningBlock struct {
	Main            *Warning `json:"main,omitempty"`
	AllCategories   *Warning `json:"allcategories,omitempty"`
	CategoryMembers *Warning `json:"categorymembers,omitempty"`
	Info            *Warning `json:"info,omitempty"`
	Pages           *Warning `json:"pages,omitempty"`
	Description     *Warning `json:"description,omitempty"`
	Extracts        *Warning `json:"extracts,omitempty"`
}

// Messages returns the warning text of every module that reported one,
// keyed by module name.
func (w *WarningBlock) Messages() map[string]string {
	out := make(map[string]string)
	if w == nil {
		return out
	}
	for name, warn := range map[string]*Warning{
		"main":              w.Main,
		listAllCategories:   w.AllCategories,
		listCategoryMembers: w.CategoryMembers,
		propInfo:            w.Info,
		"pages":             w.Pages,
		propDescription:     w.Description,
		propExtracts:        w.Extracts,
	} {
		if warn != nil {
			out[name] = warn.Warnings
		}
	}
	return out
}

// Warning is the message a module attaches to a reply, e.g. for an
// unrecognized parameter value.
type Warning struct {
	Warnings string `json:"warnings"`
}

// Category is one allcategories record. Counts are only present when
// acprop=size was requested.
type Category struct {
	Category string `json:"category"`
	Size     *int   `json:"size,omitempty"`
	Pages    *int   `json:"pages,omitempty"`
	Files    *int   `json:"files,omitempty"`
	Subcats  *int   `json:"subcats,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// NamespaceCategory is the namespace id of category pages.
const NamespaceCategory = 14

// CategoryMember is one categorymembers record. Which fields are present
// depends on cmprop.
type CategoryMember struct {
	PageID        *int64 `json:"pageid,omitempty"`
	NS            *int   `json:"ns,omitempty"`
	Title         string `json:"title,omitempty"`
	SortKey       string `json:"sortkey,omitempty"`
	SortKeyPrefix string `json:"sortkeyprefix,omitempty"`
	Type          string `json:"type,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// IsSubcategory reports whether the member lives in the category namespace.
func (m CategoryMember) IsSubcategory() bool {
	if m.NS != nil {
		return *m.NS == NamespaceCategory
	}
	return m.Type == "subcat"
}

// Page is one entry of a page set. NS, Title, PageID and Missing are
// always decoded; every other field belongs to a prop and stays empty
// unless that prop was requested.
type Page struct {
	NS      int    `json:"ns"`
	Title   string `json:"title"`
	Missing bool   `json:"missing,omitempty"`
	PageID  int64  `json:"pageid,omitempty"`

	// prop=description
	Description       string `json:"description,omitempty"`
	DescriptionSource string `json:"descriptionsource,omitempty"`

	// prop=extracts
	Extract string `json:"extract,omitempty"`

	// prop=info
	ContentModel         string                 `json:"contentmodel,omitempty"`
	PageLanguage         string                 `json:"pagelanguage,omitempty"`
	PageLanguageHTMLCode string                 `json:"pagelanguagehtmlcode,omitempty"`
	PageLanguageDir      string                 `json:"pagelanguagedir,omitempty"`
	Touched              string                 `json:"touched,omitempty"`
	LastRevID            *int64                 `json:"lastrevid,omitempty"`
	Length               *int                   `json:"length,omitempty"`
	Protection           []Protection           `json:"protection,omitempty"`
	RestrictionTypes     []string               `json:"restrictiontypes,omitempty"`
	FullURL              string                 `json:"fullurl,omitempty"`
	EditURL              string                 `json:"editurl,omitempty"`
	CanonicalURL         string                 `json:"canonicalurl,omitempty"`
	DisplayTitle         string                 `json:"displaytitle,omitempty"`
	Actions              map[string]Permissions `json:"actions,omitempty"`
}

// Protection is one protection entry of prop=info with inprop=protection.
type Protection struct {
	Type   string `json:"type"`
	Level  string `json:"level"`
	Expiry string `json:"expiry"`
}
