package feed

import (
	"context"
	"errors"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// MaxStreamCount caps the readings one Stream call may request.
const MaxStreamCount = 10000

// #region source-server
// SourceServer exposes a sensor.Source as a FeedServer.
type SourceServer struct {
	src      sensor.Source
	interval time.Duration
}

// NewSourceServer creates a server reading from src. Each Stream call gets its
// own streamer ticking at interval.
func NewSourceServer(src sensor.Source, interval time.Duration) *SourceServer {
	return &SourceServer{src: src, interval: interval}
}

var _ FeedServer = (*SourceServer)(nil)

// Read implements FeedServer.
func (s *SourceServer) Read(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	r, err := s.src.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		return nil, status.Errorf(codes.Unavailable, "read sensor: %v", err)
	}
	return toStruct(r), nil
}

// Stream implements FeedServer.
func (s *SourceServer) Stream(req *wrapperspb.UInt32Value, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	count := req.GetValue()
	if count == 0 || count > MaxStreamCount {
		return status.Errorf(codes.InvalidArgument, "count must be in 1..%d, got %d", MaxStreamCount, count)
	}

	ctx, cancel := context.WithCancelCause(stream.Context())
	defer cancel(nil)

	streamer := sensor.NewStreamer(s.src, s.interval)
	err := streamer.Run(ctx, int(count), func(e sensor.Emission) {
		if err := stream.Send(toStruct(e.Reading)); err != nil {
			cancel(err)
		}
	})
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}
	if ctxErr := stream.Context().Err(); ctxErr != nil {
		return status.FromContextError(ctxErr).Err()
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Errorf(codes.Unavailable, "stream sensor: %v", err)
}

// #endregion source-server
