package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-insights/core"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads a comma separated `ordering` query param, eg. `-average_score,student_id`.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(core.OrderingField)
	if val == "" {
		return
	}
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}
