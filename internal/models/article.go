package models

import "time"

// Article is a content page found while crawling a category tree, together
// with the page data fetched for it.
type Article struct {
	RunID    string `json:"run_id"`
	Category string `json:"category"`
	Depth    int    `json:"depth"`

	PageID            int64  `json:"page_id"`
	NS                int    `json:"ns"`
	Title             string `json:"title"`
	Missing           bool   `json:"missing,omitempty"`
	Description       string `json:"description,omitempty"`
	DescriptionSource string `json:"description_source,omitempty"`
	Extract           string `json:"extract,omitempty"`
	DisplayTitle      string `json:"display_title,omitempty"`
	CanonicalURL      string `json:"canonical_url,omitempty"`
	ContentModel      string `json:"content_model,omitempty"`
	Length            int    `json:"length,omitempty"`
	LastRevID         int64  `json:"last_rev_id,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// CrawlJob asks for a category tree to be crawled down to Depth levels of
// subcategories.
type CrawlJob struct {
	Category string `json:"category"`
	Depth    int    `json:"depth"`
}
