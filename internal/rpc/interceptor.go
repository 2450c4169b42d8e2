package rpc

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"go.uber.org/zap"
)

// NewLoggingInterceptor logs every unary call with its procedure, duration
// and resulting code. Streams log through the batch service instead.
func NewLoggingInterceptor(log *zap.Logger) connect.UnaryInterceptorFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}
			start := time.Now()
			res, err := next(ctx, req)

			fields := []zap.Field{
				zap.String("procedure", req.Spec().Procedure),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				log.Warn("rpc failed", append(fields, zap.Stringer("code", connect.CodeOf(err)), zap.Error(err))...)
				return res, err
			}
			log.Debug("rpc", fields...)
			return res, err
		}
	}
}
