package handler

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/api/apierrors"
	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// Year bounds accepted on the query string
const (
	MinYear = 1800
	MaxYear = 2200
)

// viewQuery is the raw selection carried by a view request
type viewQuery struct {
	Countries []string `query:"country" validate:"dive,required"`
	Regions   []string `query:"region" validate:"dive,required"`
	Scope     []string `query:"scope" validate:"dive,required"`
	Start     *int     `query:"start" validate:"omitempty,gte=1800,lte=2200"`
	End       *int     `query:"end" validate:"omitempty,gte=1800,lte=2200"`
}

var queryValidator = newQueryValidator()

func newQueryValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("query"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// parseSelection reads the dashboard controls from the query string.
// A year range counts as selected only when both start and end are given.
func parseSelection(values url.Values) (model.Selection, *apierrors.APIError) {
	var q viewQuery
	var problems []apierrors.ValidationError

	q.Countries = trimAll(values["country"])
	q.Regions = trimAll(values["region"])
	q.Scope = trimAll(values["scope"])

	for _, p := range []struct {
		name string
		dst  **int
	}{{"start", &q.Start}, {"end", &q.End}} {
		raw := strings.TrimSpace(values.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, apierrors.ValidationError{Field: p.name, Message: fmt.Sprintf("%q is not a year", raw)})
			continue
		}
		*p.dst = &n
	}

	if len(problems) == 0 {
		if err := queryValidator.Struct(q); err != nil {
			problems = append(problems, validationProblems(err)...)
		}
	}
	if len(problems) > 0 {
		return model.Selection{}, apierrors.ErrInvalidParameter.WithDetails(problems)
	}

	sel := model.Selection{Countries: q.Countries, Regions: q.Regions, Scope: q.Scope}
	if q.Start != nil && q.End != nil {
		sel.Years = &model.YearRange{Start: *q.Start, End: *q.End}
	}
	return sel, nil
}

func validationProblems(err error) []apierrors.ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apierrors.ValidationError{{Message: err.Error()}}
	}
	out := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "failed " + fe.Tag()
		switch fe.Tag() {
		case "gte", "lte":
			msg = fmt.Sprintf("must be a year between %d and %d", MinYear, MaxYear)
		case "required":
			msg = "must not be empty"
		}
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}
		out = append(out, apierrors.ValidationError{Field: field, Message: msg})
	}
	return out
}

// trimAll trims values and drops blank ones, so a cleared control
// (?country=) reads as an empty selection.
func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
