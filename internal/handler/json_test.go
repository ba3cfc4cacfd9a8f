package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody(t *testing.T) {
	skip := func(d *jx.Decoder, _ string) error { return d.Skip() }

	for _, tt := range []struct {
		name   string
		body   func() *http.Request
		status int
		msg    string
	}{
		{
			name: "too large",
			body: func() *http.Request {
				big := `{"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
			},
			status: http.StatusRequestEntityTooLarge,
			msg:    "request body too large",
		},
		{
			name: "read failure",
			body: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", iotest.ErrReader(errors.New("connection reset")))
			},
			status: http.StatusBadRequest,
			msg:    "failed to read request body",
		},
		{
			name: "not an object",
			body: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1]`))
			},
			status: http.StatusBadRequest,
			msg:    "request body must be a JSON object",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeBody(tt.body(), skip)

			var ae *apiError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.status, ae.status)
			assert.Equal(t, tt.msg, ae.message)
		})
	}

	t.Run("object", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":3,"extra":true}`))
		var quantity int
		err := decodeBody(r, func(d *jx.Decoder, key string) error {
			if key != "quantity" {
				return d.Skip()
			}
			var err error
			quantity, err = d.Int()
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 3, quantity)
	})
}
