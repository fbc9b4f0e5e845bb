package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/metrics"
)

// DefaultRangeDays is the statistics window when no start is given.
const DefaultRangeDays = 30

// parseRange reads start and end (yyyy-mm-dd). A missing end is today in
// UTC, the zone bare trade dates are read in; a missing start is
// DefaultRangeDays before end.
func parseRange(r *http.Request, now time.Time) (metrics.Range, error) {
	rng := metrics.Range{End: now.UTC()}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := dates.Parse(s)
		if err != nil {
			return rng, errInvalidParameter("end", err)
		}
		rng.End = t
	}
	rng.Start = dates.AddDays(rng.End, -(DefaultRangeDays - 1))
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := dates.Parse(s)
		if err != nil {
			return rng, errInvalidParameter("start", err)
		}
		rng.Start = t
	}
	if rng.Start.After(rng.End) {
		return rng, errInvalidParameter("start", fmt.Errorf("start %s is after end %s",
			dates.ToISODate(rng.Start), dates.ToISODate(rng.End)))
	}
	return rng, nil
}

func parseCategory(r *http.Request) (metrics.Category, error) {
	c := metrics.Category(r.URL.Query().Get("category"))
	if c == "" {
		return metrics.CategoryTotal, nil
	}
	if !c.Valid() {
		return c, errInvalidParameter("category", fmt.Errorf("%q is not one of total, stock, crypto", c))
	}
	return c, nil
}

func parseInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errInvalidParameter(name, err)
	}
	return n, nil
}

func parseBool(r *http.Request, name string) (bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errInvalidParameter(name, err)
	}
	return b, nil
}
