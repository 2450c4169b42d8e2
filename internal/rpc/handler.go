package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"go.uber.org/zap"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/service"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// ParserHandler adapts service.Service to Connect handlers.
type ParserHandler struct {
	svc *service.Service
}

// NewParserHandler wraps svc.
func NewParserHandler(svc *service.Service) *ParserHandler {
	return &ParserHandler{svc: svc}
}

func (h *ParserHandler) ParseFile(ctx context.Context, req *connect.Request[syntax.Request]) (*connect.Response[syntax.Response], error) {
	resp, err := h.svc.ParseFile(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&resp), nil
}

// ParseBatch reads requests from the stream while responses are written
// back as they complete. Receive and Send run on different goroutines; each
// is only ever called from one.
func (h *ParserHandler) ParseBatch(ctx context.Context, stream *connect.BidiStream[syntax.Request, syntax.Response]) error {
	src := batch.SourceFunc(func(context.Context) (syntax.Request, error) {
		msg, err := stream.Receive()
		if err != nil {
			return syntax.Request{}, err
		}
		return *msg, nil
	})
	sink := func(resp syntax.Response) error {
		return stream.Send(&resp)
	}

	if _, err := h.svc.ParseBatch(ctx, src, sink); err != nil {
		return toConnectError(err)
	}
	return nil
}

func (h *ParserHandler) ExtractSkeleton(ctx context.Context, req *connect.Request[syntax.Request]) (*connect.Response[syntax.SkeletonResponse], error) {
	resp, err := h.svc.ExtractSkeleton(ctx, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&resp), nil
}

func (h *ParserHandler) GetSupportedLanguages(ctx context.Context, _ *connect.Request[syntax.Empty]) (*connect.Response[syntax.LanguagesResponse], error) {
	resp := h.svc.GetSupportedLanguages(ctx)
	return connect.NewResponse(&resp), nil
}

// HandlerOptions are shared by every parser procedure.
func HandlerOptions(log *zap.Logger) connect.HandlerOption {
	return connect.WithHandlerOptions(
		connect.WithCodec(jsonCodec{}),
		connect.WithCompression(CompressionZstd, newZstdDecompressor, newZstdCompressor),
		connect.WithInterceptors(NewLoggingInterceptor(log)),
	)
}

// NewParserServiceHandler builds the HTTP handler for all four procedures
// and returns the path prefix it should be mounted on.
func NewParserServiceHandler(h *ParserHandler, log *zap.Logger, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{HandlerOptions(log)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ParseFileProcedure, connect.NewUnaryHandler(ParseFileProcedure, h.ParseFile, opts...))
	mux.Handle(ParseBatchProcedure, connect.NewBidiStreamHandler(ParseBatchProcedure, h.ParseBatch, opts...))
	mux.Handle(ExtractSkeletonProcedure, connect.NewUnaryHandler(ExtractSkeletonProcedure, h.ExtractSkeleton, opts...))
	mux.Handle(GetSupportedLanguagesProcedure, connect.NewUnaryHandler(GetSupportedLanguagesProcedure, h.GetSupportedLanguages, opts...))
	return "/" + ServiceName + "/", mux
}

// toConnectError maps the per-file error taxonomy onto Connect codes.
func toConnectError(err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	switch syntax.KindOf(err) {
	case syntax.ErrUnsupportedLanguage, syntax.ErrSyntax:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case syntax.ErrCancelled:
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
