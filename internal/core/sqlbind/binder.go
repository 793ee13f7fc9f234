// Package sqlbind assigns positional Postgres placeholders ($1, $2, ...) to query arguments.
//
// A Binder numbers placeholders strictly in the order values are bound. Every query fragment built
// through the same Binder therefore agrees with the argument slice returned by Args.
package sqlbind

import (
	"strconv"
	"strings"
)

type Binder struct {
	args []any
}

func New() *Binder {
	return &Binder{}
}

// Bind appends v and returns its placeholder.
func (b *Binder) Bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// BindAll binds every value in order and returns the placeholders in the same order.
func (b *Binder) BindAll(vs ...any) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = b.Bind(v)
	}
	return out
}

// Tuple binds vs and renders them as a parenthesised list, e.g. "($3, $4)".
func (b *Binder) Tuple(vs ...any) string {
	return "(" + strings.Join(b.BindAll(vs...), ", ") + ")"
}

func (b *Binder) Args() []any {
	return b.args
}

func (b *Binder) Len() int {
	return len(b.args)
}
