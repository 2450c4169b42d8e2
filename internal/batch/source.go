package batch

import (
	"context"
	"io"

	"github.com/dusk-indust/archparse/internal/syntax"
)

// Source yields the requests of a batch. Recv returns io.EOF once the
// source is exhausted. Recv is only called from the intake stage, never
// concurrently.
type Source interface {
	Recv(ctx context.Context) (syntax.Request, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (syntax.Request, error)

func (f SourceFunc) Recv(ctx context.Context) (syntax.Request, error) { return f(ctx) }

// SliceSource yields reqs in order.
func SliceSource(reqs []syntax.Request) Source {
	i := 0
	return SourceFunc(func(ctx context.Context) (syntax.Request, error) {
		if err := ctx.Err(); err != nil {
			return syntax.Request{}, err
		}
		if i >= len(reqs) {
			return syntax.Request{}, io.EOF
		}
		req := reqs[i]
		i++
		return req, nil
	})
}

// ChanSource yields requests from ch until it is closed.
func ChanSource(ch <-chan syntax.Request) Source {
	return SourceFunc(func(ctx context.Context) (syntax.Request, error) {
		select {
		case req, ok := <-ch:
			if !ok {
				return syntax.Request{}, io.EOF
			}
			return req, nil
		case <-ctx.Done():
			return syntax.Request{}, ctx.Err()
		}
	})
}
