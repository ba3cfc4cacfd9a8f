package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, `{"version":1,"ids":["a","b"]}`, string(Encode([]string{"a", "b"})))
	assert.Equal(t, `{"version":1,"ids":[]}`, string(Encode(nil)))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{name: "versioned", in: `{"version":1,"ids":["p1","p2"]}`, want: []string{"p1", "p2"}},
		{name: "legacy array", in: `["p1","p2"]`, want: []string{"p1", "p2"}},
		{name: "legacy empty", in: `[]`, want: []string{}},
		{name: "missing version", in: `{"ids":["p1"]}`, want: []string{"p1"}},
		{name: "unknown fields skipped", in: `{"version":1,"ids":["x"],"updatedAt":"2024-01-01"}`, want: []string{"x"}},
		{name: "future version", in: `{"version":2,"ids":["p1"]}`, wantErr: true},
		{name: "not json", in: `not json`, wantErr: true},
		{name: "empty", in: ``, wantErr: true},
		{name: "string", in: `"p1"`, wantErr: true},
		{name: "non-string id", in: `[1,2]`, wantErr: true},
		{name: "truncated", in: `["p1",`, wantErr: true},
		{name: "bad ids type", in: `{"version":1,"ids":{}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCorrupt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	ids := []string{"a", "b b", `q"uote`, "ç"}
	got, err := Decode(Encode(ids))
	require.NoError(t, err)
	assert.Equal(t, ids, got)
}
