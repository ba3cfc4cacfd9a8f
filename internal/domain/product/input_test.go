package product

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Name:     "Pastilha de freio dianteira",
		Price:    decimal.RequireFromString("189.90"),
		Stock:    12,
		Category: CategoryBrakes,
		Brand:    "Bosch",
	}
}

func TestInput_Validate(t *testing.T) {
	for _, tt := range []struct {
		name  string
		edit  func(in *Input)
		field string
	}{
		{name: "valid", edit: func(*Input) {}},
		{name: "zero stock", edit: func(in *Input) { in.Stock = 0 }},
		{name: "missing name", edit: func(in *Input) { in.Name = "" }, field: "name"},
		{name: "zero price", edit: func(in *Input) { in.Price = decimal.Zero }, field: "price"},
		{name: "negative stock", edit: func(in *Input) { in.Stock = -1 }, field: "stock"},
		{name: "missing category", edit: func(in *Input) { in.Category = "" }, field: "category"},
		{name: "unknown category", edit: func(in *Input) { in.Category = "Acessórios" }, field: "category"},
		{name: "missing brand", edit: func(in *Input) { in.Brand = "" }, field: "brand"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.edit(&in)

			err := in.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestInput_Normalize(t *testing.T) {
	in := Input{
		Name:   "  Filtro de ar ",
		Brand:  " Mann ",
		Images: []string{" a.jpg", "", "  ", "b.jpg "},
	}.Normalize()

	assert.Equal(t, "Filtro de ar", in.Name)
	assert.Equal(t, "Mann", in.Brand)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, in.Images)
}
