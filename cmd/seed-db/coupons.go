package main

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
)

// decodeCoupons reads a JSON array of coupon definitions.
func decodeCoupons(data []byte) ([]coupon.Rule, error) {
	var rules []coupon.Rule
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		rule, err := decodeCoupon(d)
		if err != nil {
			return errors.Wrapf(err, "coupon #%d", len(rules)+1)
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func decodeCoupon(d *jx.Decoder) (coupon.Rule, error) {
	var rule coupon.Rule
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "code":
			var s string
			s, err = d.Str()
			rule.Code = coupon.NormalizeCode(s)
		case "type":
			var s string
			s, err = d.Str()
			rule.DiscountType = coupon.DiscountType(s)
		case "value":
			rule.Value, err = decodeValue(d)
		case "minItems":
			rule.MinItems, err = d.Int()
		case "maxUses":
			rule.MaxUses, err = d.Int()
		case "description":
			rule.Description, err = d.Str()
		case "validFrom":
			rule.ValidFrom, err = decodeTime(d)
		case "validUntil":
			rule.ValidUntil, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
	if err != nil {
		return rule, err
	}

	switch {
	case rule.Code == "":
		return rule, errors.New("code is required")
	case !rule.DiscountType.Valid():
		return rule, errors.Errorf("%s: unknown discount type %q", rule.Code, rule.DiscountType)
	case rule.Value.IsNegative():
		return rule, errors.Errorf("%s: negative value", rule.Code)
	}
	return rule, nil
}

// decodeValue accepts a decimal as a JSON string or number.
func decodeValue(d *jx.Decoder) (decimal.Decimal, error) {
	var s string
	if d.Next() == jx.Number {
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		s = n.String()
	} else {
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		s = v
	}
	return decimal.NewFromString(s)
}

func decodeTime(d *jx.Decoder) (*time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
