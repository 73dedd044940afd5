package wikiquery

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermission_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Permission
		wantErr bool
	}{
		{name: "true", raw: `true`, want: BoolPermission(true)},
		{name: "false", raw: `false`, want: BoolPermission(false)},
		{name: "detailed", raw: `{"code":"protectedpage","text":"This page has been protected."}`, want: DetailPermission("protectedpage", "This page has been protected.")},
		{name: "detailed with extra keys", raw: `{"code":"blocked","text":"You are blocked.","data":{"blockid":1}}`, want: DetailPermission("blocked", "You are blocked.")},
		{name: "string", raw: `"yes"`, wantErr: true},
		{name: "number", raw: `1`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "empty object", raw: `{}`, wantErr: true},
		{name: "object without code", raw: `{"text":"no code"}`, wantErr: true},
		{name: "object without text", raw: `{"code":"protectedpage"}`, wantErr: true},
		{name: "empty text is still text", raw: `{"code":"blocked","text":""}`, want: DetailPermission("blocked", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Permission
			err := got.UnmarshalJSON([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPermission))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissions_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        Permissions
		wantAllowed bool
		wantErr     bool
	}{
		{name: "single bool", raw: `true`, want: Permissions{BoolPermission(true)}, wantAllowed: true},
		{name: "single false", raw: `false`, want: Permissions{BoolPermission(false)}, wantAllowed: false},
		{name: "empty list", raw: `[]`, want: Permissions{}, wantAllowed: true},
		{
			name:        "list of reasons",
			raw:         `[{"code":"a","text":"A"},{"code":"b","text":"B"}]`,
			want:        Permissions{DetailPermission("a", "A"), DetailPermission("b", "B")},
			wantAllowed: false,
		},
		{name: "list with bad element", raw: `[{"code":"a","text":"A"},"nope"]`, wantErr: true},
		{name: "string", raw: `"nope"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Permissions
			err := got.UnmarshalJSON([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAllowed, got.Allowed())
		})
	}
}

func TestPermission_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Permissions{
		"read": {BoolPermission(true)},
		"edit": {DetailPermission("protectedpage", "Protected")},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"read":[true],"edit":[{"code":"protectedpage","text":"Protected"}]}`, string(out))
}
