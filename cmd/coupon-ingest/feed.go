package main

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/autoparts-storefront/internal/domain/coupon"
)

// Feed columns. CODE, TYPE and VALUE are required; the rest may be omitted
// from the header.
const (
	colCode        = "CODE"
	colType        = "TYPE"
	colValue       = "VALUE"
	colMinItems    = "MIN_ITEMS"
	colDescription = "DESCRIPTION"
	colValidFrom   = "VALID_FROM"
	colValidUntil  = "VALID_UNTIL"
	colMaxUses     = "MAX_USES"
)

var requiredColumns = []string{colCode, colType, colValue}

// RowError reports an invalid feed row.
type RowError struct {
	File string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return e.File + ":" + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *RowError) Unwrap() error { return e.Err }

// feed is the parsed content of one partner file.
type feed struct {
	name  string
	rules []coupon.Rule
	// skipped counts invalid rows when parsing leniently.
	skipped int
}

// loadFeeds parses files concurrently. The result keeps the order of files.
func loadFeeds(ctx context.Context, lg *zap.Logger, files []string, strict bool) ([]feed, error) {
	feeds := make([]feed, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			f, err := loadFeed(ctx, path, strict)
			if err != nil {
				return errors.Wrapf(err, "load %s", path)
			}
			lg.Info("Feed parsed",
				zap.String("file", path),
				zap.Int("rules", len(f.rules)),
				zap.Int("skipped", f.skipped),
			)
			feeds[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feeds, nil
}

// loadFeed opens a CSV feed, transparently decompressing .gz files.
func loadFeed(ctx context.Context, path string, strict bool) (feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return feed{}, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return feed{}, errors.Wrap(err, "create gzip reader")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}
	return parseFeed(ctx, filepath.Base(path), r, strict)
}

// parseFeed reads a headed CSV stream. In strict mode the first invalid row
// aborts parsing; otherwise invalid rows are counted and skipped.
func parseFeed(ctx context.Context, name string, r io.Reader, strict bool) (feed, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return feed{name: name}, nil
		}
		return feed{}, errors.Wrap(err, "read header")
	}
	cols, err := indexColumns(header)
	if err != nil {
		return feed{}, err
	}

	out := feed{name: name}
	for {
		if err := ctx.Err(); err != nil {
			return feed{}, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return feed{}, &RowError{File: name, Line: pe.Line, Err: pe.Err}
			}
			return feed{}, errors.Wrap(err, "read row")
		}
		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}

		rule, err := parseRule(cols, record)
		if err != nil {
			if strict {
				return feed{}, &RowError{File: name, Line: line, Err: err}
			}
			out.skipped++
			continue
		}
		out.rules = append(out.rules, rule)
	}
	return out, nil
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, errors.Errorf("missing %s column", c)
		}
	}
	return cols, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRule(cols map[string]int, record []string) (coupon.Rule, error) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rule := coupon.Rule{
		Code:         coupon.NormalizeCode(get(colCode)),
		DiscountType: coupon.DiscountType(strings.ToLower(get(colType))),
		Description:  get(colDescription),
	}
	if rule.Code == "" {
		return rule, errors.New("empty code")
	}
	if !rule.DiscountType.Valid() {
		return rule, errors.Errorf("unknown discount type %q", get(colType))
	}

	value, err := decimal.NewFromString(get(colValue))
	if err != nil {
		return rule, errors.Wrap(err, "parse value")
	}
	if value.IsNegative() {
		return rule, errors.New("negative value")
	}
	if rule.DiscountType == coupon.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return rule, errors.New("percentage above 100")
	}
	rule.Value = value

	if rule.MinItems, err = parseCount(get(colMinItems)); err != nil {
		return rule, errors.Wrap(err, "parse min items")
	}
	if rule.MaxUses, err = parseCount(get(colMaxUses)); err != nil {
		return rule, errors.Wrap(err, "parse max uses")
	}
	if rule.ValidFrom, err = parseTime(get(colValidFrom)); err != nil {
		return rule, errors.Wrap(err, "parse valid from")
	}
	if rule.ValidUntil, err = parseTime(get(colValidUntil)); err != nil {
		return rule, errors.Wrap(err, "parse valid until")
	}
	if rule.ValidFrom != nil && rule.ValidUntil != nil && rule.ValidUntil.Before(*rule.ValidFrom) {
		return rule, errors.New("valid until precedes valid from")
	}
	return rule, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates (UTC midnight).
func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Errorf("invalid time %q", s)
}

// mergeFeeds flattens feeds into one rule per code. Later rows and later
// feeds override earlier ones. The result is ordered by first appearance.
func mergeFeeds(feeds []feed) []coupon.Rule {
	index := make(map[string]int)
	var out []coupon.Rule
	for _, f := range feeds {
		for _, rule := range f.rules {
			if i, ok := index[rule.Code]; ok {
				out[i] = rule
				continue
			}
			index[rule.Code] = len(out)
			out = append(out, rule)
		}
	}
	return out
}
