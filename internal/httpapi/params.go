package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"mlbvalue-mcp/internal/dashboard"

	"github.com/go-playground/validator/v10"
)

// errBadParam marks query parameters that cannot be parsed or fail validation.
var errBadParam = errors.New("invalid query parameter")

// FilterQuery holds the player filters shared by most endpoints.
type FilterQuery struct {
	Team      string   `json:"team" validate:"max=64"`
	Teams     []string `json:"teams" validate:"max=30,dive,max=64"`
	Positions []string `json:"positions" validate:"max=10,dive,max=8"`
	MinWAR    *float64 `json:"min_war"`
	MaxWAR    *float64 `json:"max_war"`
	MinSalary *float64 `json:"min_salary" validate:"omitnil,gte=0"`
	MaxSalary *float64 `json:"max_salary" validate:"omitnil,gte=0"`
	Name      string   `json:"name" validate:"max=128"`
}

// SortQuery orders and truncates player listings.
type SortQuery struct {
	SortBy     string `json:"sort_by" validate:"max=64"`
	Descending bool   `json:"descending"`
	Limit      int    `json:"limit" validate:"gte=0,lte=10000"`
}

type playersQuery struct {
	FilterQuery
	SortQuery
	Columns []string `json:"columns" validate:"max=64,dive,max=64"`
}

type compareQuery struct {
	Names []string `json:"names" validate:"min=1,max=5,dive,required,max=128"`
}

type leadersQuery struct {
	FilterQuery
	Top       int  `json:"top" validate:"gte=0,lte=500"`
	Ascending bool `json:"ascending"`
}

type anomalyQuery struct {
	FilterQuery
	ThresholdPct *float64 `json:"threshold_pct" validate:"omitnil,gt=0,lte=1000"`
	WARFloor     *float64 `json:"war_floor"`
	Limit        int      `json:"limit" validate:"gte=0,lte=10000"`
}

type teamsQuery struct {
	Teams      []string `json:"teams" validate:"max=30,dive,max=64"`
	SortBy     string   `json:"sort_by" validate:"max=32"`
	Descending bool     `json:"descending"`
}

type regressionQuery struct {
	FilterQuery
	X string `json:"x" validate:"max=64"`
	Y string `json:"y" validate:"max=64"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// queryReader collects the first parse error so handlers can read every field in sequence.
type queryReader struct {
	q   url.Values
	err error
}

func (qr *queryReader) fail(key, value string, err error) {
	if qr.err == nil {
		qr.err = fmt.Errorf("%w: %s=%q: %v", errBadParam, key, value, err)
	}
}

func (qr *queryReader) str(key string) string {
	return strings.TrimSpace(qr.q.Get(key))
}

// list accepts both repeated keys and comma separated values.
func (qr *queryReader) list(key string) []string {
	var out []string
	for _, raw := range qr.q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (qr *queryReader) number(key string) *float64 {
	raw := qr.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		qr.fail(key, raw, err)
		return nil
	}
	return &v
}

func (qr *queryReader) integer(key string) int {
	raw := qr.str(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		qr.fail(key, raw, err)
	}
	return v
}

func (qr *queryReader) flag(key string) bool {
	raw := qr.str(key)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		qr.fail(key, raw, err)
	}
	return v
}

func (qr *queryReader) filter() FilterQuery {
	return FilterQuery{
		Team:      qr.str("team"),
		Teams:     qr.list("teams"),
		Positions: qr.list("positions"),
		MinWAR:    qr.number("min_war"),
		MaxWAR:    qr.number("max_war"),
		MinSalary: qr.number("min_salary"),
		MaxSalary: qr.number("max_salary"),
		Name:      qr.str("name"),
	}
}

func (qr *queryReader) sort() SortQuery {
	return SortQuery{
		SortBy:     qr.str("sort_by"),
		Descending: qr.flag("descending"),
		Limit:      qr.integer("limit"),
	}
}

func (f FilterQuery) toFilter() dashboard.Filter {
	return dashboard.Filter{
		Team:      f.Team,
		Teams:     f.Teams,
		Positions: f.Positions,
		MinWAR:    f.MinWAR,
		MaxWAR:    f.MaxWAR,
		MinSalary: f.MinSalary,
		MaxSalary: f.MaxSalary,
		Name:      f.Name,
	}
}

// check reports the first parse error, then runs the struct validation.
func (s *Server) check(qr *queryReader, v any) error {
	if qr.err != nil {
		return qr.err
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q", errBadParam, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", errBadParam, err)
	}
	return nil
}
