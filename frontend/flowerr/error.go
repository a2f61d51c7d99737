package flowerr

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
)

type Errors struct {
	errs []FlowError
}

func (r *Errors) With(err ...FlowError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []FlowError {
	if r == nil {
		return nil
	}
	return r.errs
}

// Sorted returns the errors ordered by start position, then end position.
// Errors with the same range keep the order they were reported in.
func (r *Errors) Sorted() []FlowError {
	out := slices.Clone(r.Errors())
	slices.SortStableFunc(out, func(a, b FlowError) int {
		return cmp.Or(
			cmp.Compare(a.Pos(), b.Pos()),
			cmp.Compare(a.End(), b.End()),
		)
	})
	return out
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

func (r *Errors) Len() int {
	if r == nil {
		return 0
	}
	return len(r.errs)
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
