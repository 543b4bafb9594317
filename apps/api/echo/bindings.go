package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
)

var orderingParam = "ordering"

// Ordering binds `?ordering=field1,-field2` ("-" for descending order).
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context, orderable func(field string) bool) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if orderable != nil && !orderable(field) {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}
