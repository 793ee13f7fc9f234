package query

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type Result[T any] struct {
	Items []T `json:"data"`
	Meta  Meta `json:"meta"`
}

// Run executes the count query, then the data query when at least one row matches.
func Run[T any](ctx context.Context, q sqlx.QueryerContext, plan Plan) (Result[T], error) {
	res := Result[T]{
		Items: make([]T, 0),
		Meta:  Meta{Page: plan.Page, Limit: plan.Limit},
	}

	if err := sqlx.GetContext(ctx, q, &res.Meta.Total, plan.CountQuery, plan.CountArgs()...); err != nil {
		return Result[T]{}, fmt.Errorf("count query: %w", err)
	}
	if res.Meta.Total == 0 {
		return res, nil
	}

	if err := sqlx.SelectContext(ctx, q, &res.Items, plan.DataQuery, plan.Args...); err != nil {
		return Result[T]{}, fmt.Errorf("data query: %w", err)
	}
	return res, nil
}
