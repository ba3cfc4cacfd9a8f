package wishlist

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Version is the schema version written by Encode. Version 0 is the legacy
// bare JSON array of ids.
const Version = 1

// ErrCorrupt is returned by Decode for content it cannot interpret.
var ErrCorrupt = errors.New("corrupt wishlist data")

// Encode serializes ids as {"version":1,"ids":[...]}.
func Encode(ids []string) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(Version) })
		e.Field("ids", func(e *jx.Encoder) { encodeIDs(e, ids) })
	})
	return e.Bytes()
}

func encodeIDs(e *jx.Encoder, ids []string) {
	e.Arr(func(e *jx.Encoder) {
		for _, id := range ids {
			e.Str(id)
		}
	})
}

// Decode parses both the versioned object and the legacy array format. An
// object without a version field is read as version 0.
func Decode(data []byte) ([]string, error) {
	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.Array:
		ids, err := decodeIDs(d)
		if err != nil {
			return nil, errors.Wrap(ErrCorrupt, err.Error())
		}
		return ids, nil
	case jx.Object:
		return decodeVersioned(d)
	default:
		return nil, ErrCorrupt
	}
}

func decodeVersioned(d *jx.Decoder) ([]string, error) {
	var (
		version = 0
		ids     []string
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "version")
			}
			version = v
		case "ids":
			v, err := decodeIDs(d)
			if err != nil {
				return errors.Wrap(err, "ids")
			}
			ids = v
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}

	if version < 0 || version > Version {
		return nil, errors.Wrapf(ErrCorrupt, "unsupported version %d", version)
	}
	return ids, nil
}

func decodeIDs(d *jx.Decoder) ([]string, error) {
	ids := []string{}
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		ids = append(ids, s)
		return nil
	})
	return ids, err
}
