// Package rpc exposes the parser service over Connect: unary calls for
// ParseFile, ExtractSkeleton and GetSupportedLanguages and a bidirectional
// stream for ParseBatch. Messages are the syntax package's JSON shapes.
package rpc

import (
	"encoding/json"
	"fmt"
	"io"

	"connectrpc.com/connect"
	"github.com/klauspost/compress/zstd"
)

// ServiceName is the fully-qualified name of the parser service.
const ServiceName = "archlens.parser.ParserService"

// Procedure paths.
const (
	ParseFileProcedure             = "/" + ServiceName + "/ParseFile"
	ParseBatchProcedure            = "/" + ServiceName + "/ParseBatch"
	ExtractSkeletonProcedure       = "/" + ServiceName + "/ExtractSkeleton"
	GetSupportedLanguagesProcedure = "/" + ServiceName + "/GetSupportedLanguages"
)

// jsonCodec carries plain Go structs, so no generated message types are
// needed. It registers under "json", replacing Connect's protojson codec.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}

// CompressionZstd is the name zstd is negotiated under.
const CompressionZstd = "zstd"

// zstdDecompressor adapts a zstd.Decoder to connect.Decompressor. Connect
// pools decompressors and calls Close before putting one back, so Close
// must leave the decoder usable for the next Reset.
type zstdDecompressor struct {
	dec *zstd.Decoder
}

func (d *zstdDecompressor) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *zstdDecompressor) Reset(r io.Reader) error    { return d.dec.Reset(r) }
func (d *zstdDecompressor) Close() error               { return nil }

func newZstdDecompressor() connect.Decompressor {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("zstd decoder: %v", err))
	}
	return &zstdDecompressor{dec: dec}
}

func newZstdCompressor() connect.Compressor {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(fmt.Sprintf("zstd encoder: %v", err))
	}
	return enc
}
