// Package service implements the four parser operations independent of any
// transport: ParseFile, ParseBatch, ExtractSkeleton and
// GetSupportedLanguages.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/engine"
	"github.com/dusk-indust/archparse/internal/registry"
	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// Service is the call boundary of the parser.
type Service struct {
	engine *engine.Engine
	orch   *batch.Orchestrator
	log    *zap.Logger
}

// New wires a Service. orch must parse with eng so unary and streaming
// calls produce identical results.
func New(eng *engine.Engine, orch *batch.Orchestrator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: eng, orch: orch, log: log}
}

// ParseFile parses one file. Per-file failures are reported on the
// response; the error is only non-nil when ctx ends first.
func (s *Service) ParseFile(ctx context.Context, req syntax.Request) (syntax.Response, error) {
	s.log.Info("parsing file",
		zap.String("file_id", req.FileID),
		zap.String("file_path", req.FilePath),
		zap.String("language", req.Language),
	)
	return s.orch.Single(ctx, req)
}

// ParseBatch streams requests from src through the orchestrator into sink.
// Responses arrive in completion order, correlated by file_id. A caller
// cancellation ends the stream quietly: it is not reported as an error.
func (s *Service) ParseBatch(ctx context.Context, src batch.Source, sink batch.Sink) (batch.Stats, error) {
	log := s.log.With(zap.String("stream_id", uuid.NewString()))
	log.Info("batch stream opened")

	stats, err := s.orch.Run(ctx, src, sink)
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("batch stream cancelled by caller",
			zap.Int("received", stats.Received),
			zap.Int("completed", stats.Completed+stats.Failed),
		)
		return stats, nil
	case err != nil:
		log.Error("batch stream failed", zap.Error(err))
		return stats, err
	}

	log.Info("batch stream closed",
		zap.Int("received", stats.Received),
		zap.Int("completed", stats.Completed),
		zap.Int("failed", stats.Failed),
		zap.Int("peak_in_flight", stats.PeakInFlight),
	)
	return stats, nil
}

// ExtractSkeleton renders the declarations-only view of a file. Unlike
// ParseFile the response has no error field, so failures are returned as
// *syntax.Error values.
func (s *Service) ExtractSkeleton(ctx context.Context, req syntax.Request) (syntax.SkeletonResponse, error) {
	s.log.Info("extracting skeleton", zap.String("file_id", req.FileID))

	adapter, tree, err := s.engine.Tree(ctx, req)
	if err != nil {
		return syntax.SkeletonResponse{}, err
	}
	res := skeleton.Extract(tree, adapter)
	return syntax.SkeletonResponse{
		FileID:    req.FileID,
		FilePath:  req.FilePath,
		Skeleton:  res.Skeleton,
		PublicAPI: res.PublicAPI,
	}, nil
}

// GetSupportedLanguages lists the registry in registration order.
func (s *Service) GetSupportedLanguages(context.Context) syntax.LanguagesResponse {
	return syntax.LanguagesResponse{Languages: s.engine.Registry().Languages()}
}

// Registry returns the registry requests are resolved against.
func (s *Service) Registry() *registry.Registry {
	return s.engine.Registry()
}
