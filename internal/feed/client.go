package feed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// #region client-struct
// Client reads from a remote sensor feed. It implements sensor.Source.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

var _ sensor.Source = (*Client)(nil)

// #endregion client-struct

// #region constructor
// NewClient connects to a sensor feed server. The connection is lazy.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn wraps an existing connection. Close does not close it.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region read
// Read fetches one reading.
func (c *Client) Read(ctx context.Context) (sensor.Reading, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, readMethod, &emptypb.Empty{}, out); err != nil {
		return sensor.Reading{}, fmt.Errorf("read rpc: %w", err)
	}
	return fromStruct(out)
}

// #endregion read

// #region stream
// Stream asks the server for count readings and calls emit for each as it arrives.
// It returns nil once the server closes the stream.
func (c *Client) Stream(ctx context.Context, count int, emit func(sensor.Emission)) error {
	if count <= 0 {
		return nil
	}
	s, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], streamMethod)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	stream := &grpc.GenericClientStream[wrapperspb.UInt32Value, structpb.Struct]{ClientStream: s}
	if err := stream.Send(wrapperspb.UInt32(uint32(count))); err != nil {
		return fmt.Errorf("send count: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("close send: %w", err)
	}

	for seq := 1; ; seq++ {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream recv: %w", err)
		}
		r, err := fromStruct(msg)
		if err != nil {
			return err
		}
		emit(sensor.Emission{Seq: seq, Reading: r})
	}
}

// #endregion stream
