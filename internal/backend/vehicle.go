package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/jx"

	"github.com/xenking/autoparts-storefront/internal/domain/vehicle"
)

var _ vehicle.Lookup = (*Client)(nil)

// GetByPlate fetches vehicle metadata for a plate. Unknown plates yield
// vehicle.ErrNotFound.
func (c *Client) GetByPlate(ctx context.Context, plate string) (*vehicle.Vehicle, error) {
	plate = strings.ToUpper(strings.Join(strings.Fields(plate), ""))

	var v vehicle.Vehicle
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{"cars", "plate", plate},
	}, func(d *jx.Decoder) error {
		return decodeVehicle(d, &v)
	})
	if isStatus(err, http.StatusNotFound) {
		return nil, vehicle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeVehicle(d *jx.Decoder, v *vehicle.Vehicle) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var field *string
		switch string(key) {
		case "plate":
			field = &v.Plate
		case "name":
			field = &v.Name
		case "brand":
			field = &v.Brand
		case "model":
			field = &v.Model
		case "year":
			field = &v.Year
		case "color":
			field = &v.Color
		case "fuelType":
			field = &v.FuelType
		case "engine":
			field = &v.Engine
		case "chassis":
			field = &v.Chassis
		case "renavam":
			field = &v.Renavam
		default:
			return d.Skip()
		}
		s, err := decodeText(d)
		*field = s
		return err
	})
}
