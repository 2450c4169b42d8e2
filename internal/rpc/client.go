package rpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/syntax"
)

// Client calls a remote parser service.
type Client struct {
	parseFile       *connect.Client[syntax.Request, syntax.Response]
	parseBatch      *connect.Client[syntax.Request, syntax.Response]
	extractSkeleton *connect.Client[syntax.Request, syntax.SkeletonResponse]
	languages       *connect.Client[syntax.Empty, syntax.LanguagesResponse]
}

// NewClient creates a Client for the service at baseURL. Bidirectional
// streaming needs HTTP/2; NewH2CClient provides a cleartext one.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithAcceptCompression(CompressionZstd, newZstdDecompressor, newZstdCompressor),
		connect.WithSendCompression(CompressionZstd),
	}, opts...)

	return &Client{
		parseFile:       connect.NewClient[syntax.Request, syntax.Response](httpClient, baseURL+ParseFileProcedure, opts...),
		parseBatch:      connect.NewClient[syntax.Request, syntax.Response](httpClient, baseURL+ParseBatchProcedure, opts...),
		extractSkeleton: connect.NewClient[syntax.Request, syntax.SkeletonResponse](httpClient, baseURL+ExtractSkeletonProcedure, opts...),
		languages:       connect.NewClient[syntax.Empty, syntax.LanguagesResponse](httpClient, baseURL+GetSupportedLanguagesProcedure, opts...),
	}
}

// NewH2CClient returns an HTTP client speaking HTTP/2 without TLS.
func NewH2CClient() *http.Client {
	return &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
	}
}

func (c *Client) ParseFile(ctx context.Context, req syntax.Request) (syntax.Response, error) {
	res, err := c.parseFile.CallUnary(ctx, connect.NewRequest(&req))
	if err != nil {
		return syntax.Response{}, err
	}
	return *res.Msg, nil
}

func (c *Client) ExtractSkeleton(ctx context.Context, req syntax.Request) (syntax.SkeletonResponse, error) {
	res, err := c.extractSkeleton.CallUnary(ctx, connect.NewRequest(&req))
	if err != nil {
		return syntax.SkeletonResponse{}, err
	}
	return *res.Msg, nil
}

func (c *Client) GetSupportedLanguages(ctx context.Context) (syntax.LanguagesResponse, error) {
	res, err := c.languages.CallUnary(ctx, connect.NewRequest(&syntax.Empty{}))
	if err != nil {
		return syntax.LanguagesResponse{}, err
	}
	return *res.Msg, nil
}

// ParseBatch sends every request from src over one stream and passes each
// response to sink as it arrives. Sending and receiving run concurrently, so
// the server's bound, not the client, governs how much is in flight.
func (c *Client) ParseBatch(ctx context.Context, src batch.Source, sink batch.Sink) error {
	stream := c.parseBatch.CallBidiStream(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			req, err := src.Recv(gctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = stream.CloseRequest()
				return fmt.Errorf("read request: %w", err)
			}
			if err := stream.Send(&req); err != nil {
				// The server ended the stream; Receive reports why.
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("send %s: %w", req.FileID, err)
			}
		}
		return stream.CloseRequest()
	})

	g.Go(func() error {
		defer stream.CloseResponse()
		for {
			msg, err := stream.Receive()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := sink(*msg); err != nil {
				return err
			}
		}
	})

	return g.Wait()
}
