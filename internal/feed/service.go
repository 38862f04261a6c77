// Package feed serves and consumes simulated sensor readings over gRPC.
//
// The service is described by hand rather than generated: requests and
// responses use the protobuf well-known types, so a reading travels as a
// google.protobuf.Struct with heart_rate, temperature, humidity and at keys.
package feed

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dosha.sensor.v1.SensorFeed"

const (
	readMethod   = "/" + ServiceName + "/Read"
	streamMethod = "/" + ServiceName + "/Stream"
)

// #region server-interface
// FeedServer is the server side of the sensor feed.
type FeedServer interface {
	// Read returns one reading.
	Read(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	// Stream sends req.Value readings at the server's interval, then closes.
	Stream(req *wrapperspb.UInt32Value, stream grpc.ServerStreamingServer[structpb.Struct]) error
}

// RegisterServer attaches srv to a gRPC server.
func RegisterServer(s grpc.ServiceRegistrar, srv FeedServer) {
	s.RegisterService(&serviceDesc, srv)
}

// #endregion server-interface

// #region descriptor
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Read", Handler: readHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Stream", Handler: streamHandler, ServerStreams: true},
	},
	Metadata: "dosha/sensor/v1/feed.proto",
}

func readHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedServer).Read(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: readMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FeedServer).Read(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func streamHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.UInt32Value)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(FeedServer).Stream(in, &grpc.GenericServerStream[wrapperspb.UInt32Value, structpb.Struct]{ServerStream: stream})
}

// #endregion descriptor
