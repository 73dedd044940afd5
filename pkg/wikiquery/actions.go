package wikiquery

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// PermissionKind tells which shape an action permission was decoded from.
type PermissionKind int

const (
	PermissionBool PermissionKind = iota + 1
	PermissionDetailed
)

// DetailedPermission is the code/text pair the server sends instead of a
// plain boolean when intestactionsdetail is "full" or "quick".
type DetailedPermission struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Permission is the result of testing one action against a page. It is
// either a boolean or a DetailedPermission; Kind says which.
type Permission struct {
	Kind     PermissionKind
	Allowed  bool
	Detailed *DetailedPermission
}

// BoolPermission returns a boolean permission.
func BoolPermission(allowed bool) Permission {
	return Permission{Kind: PermissionBool, Allowed: allowed}
}

// DetailPermission returns a detailed permission.
func DetailPermission(code, text string) Permission {
	return Permission{Kind: PermissionDetailed, Detailed: &DetailedPermission{Code: code, Text: text}}
}

// UnmarshalJSON tries a boolean first, then a code/text record, and fails
// if the value is neither. The record needs a non-empty code and a text
// key.
func (p *Permission) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: %s", ErrInvalidPermission, data)
	}

	var allowed bool
	if err := json.Unmarshal(data, &allowed); err == nil {
		*p = BoolPermission(allowed)
		return nil
	}

	if data[0] == '{' {
		var record struct {
			Code *string `json:"code"`
			Text *string `json:"text"`
		}
		if err := json.Unmarshal(data, &record); err == nil &&
			record.Code != nil && *record.Code != "" && record.Text != nil {
			*p = DetailPermission(*record.Code, *record.Text)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidPermission, data)
}

func (p Permission) MarshalJSON() ([]byte, error) {
	if p.Kind == PermissionDetailed && p.Detailed != nil {
		return json.Marshal(p.Detailed)
	}
	return json.Marshal(p.Allowed)
}

// Permissions is the value of one entry in a page's actions map. The
// server sends a single boolean in "boolean" detail mode and a list of
// denial reasons otherwise; both decode into a list.
type Permissions []Permission

// Allowed reports whether the action is permitted: a true boolean, or an
// empty list of denial reasons.
func (ps Permissions) Allowed() bool {
	for _, p := range ps {
		if p.Kind == PermissionDetailed || !p.Allowed {
			return false
		}
	}
	return true
}

func (ps *Permissions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Permission
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if list == nil {
			list = Permissions{}
		}
		*ps = list
		return nil
	}

	var single Permission
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	*ps = Permissions{single}
	return nil
}
