package feed

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// #region helpers
type failingSource struct{}

func (failingSource) Read(context.Context) (sensor.Reading, error) {
	return sensor.Reading{}, errors.New("probe detached")
}

func dial(t *testing.T, src sensor.Source) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterServer(srv, NewSourceServer(src, time.Millisecond))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func ctxTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// #endregion helpers

// #region read-tests
func TestRead_MatchesSeededSimulator(t *testing.T) {
	cfg := sensor.DefaultSimulatorConfig()
	client := NewClientWithConn(dial(t, sensor.NewSimulator(42, cfg)))
	want := sensor.NewSimulator(42, cfg).Generate()

	got, err := client.Read(ctxTimeout(t))
	require.NoError(t, err)
	assert.Equal(t, want.HeartRate, got.HeartRate)
	assert.Equal(t, want.Temperature, got.Temperature)
	assert.Equal(t, want.Humidity, got.Humidity)
	assert.False(t, got.At.IsZero())
}

func TestRead_SourceErrorIsUnavailable(t *testing.T) {
	client := NewClientWithConn(dial(t, failingSource{}))
	_, err := client.Read(ctxTimeout(t))
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(errors.Unwrap(err)))
}

// #endregion read-tests

// #region stream-tests
func TestStream_EmitsCountReadings(t *testing.T) {
	client := NewClientWithConn(dial(t, sensor.NewSimulator(7, sensor.DefaultSimulatorConfig())))

	var seqs []int
	err := client.Stream(ctxTimeout(t), 4, func(e sensor.Emission) {
		seqs = append(seqs, e.Seq)
		assert.Greater(t, e.Reading.HeartRate, 0)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, seqs)
}

func TestStream_ZeroCountIsNoop(t *testing.T) {
	client := NewClientWithConn(dial(t, failingSource{}))
	called := false
	require.NoError(t, client.Stream(ctxTimeout(t), 0, func(sensor.Emission) { called = true }))
	assert.False(t, called)
}

func TestStream_ServerRejectsZeroCount(t *testing.T) {
	conn := dial(t, sensor.NewSimulator(1, sensor.DefaultSimulatorConfig()))
	s, err := conn.NewStream(ctxTimeout(t), &serviceDesc.Streams[0], streamMethod)
	require.NoError(t, err)
	stream := &grpc.GenericClientStream[wrapperspb.UInt32Value, structpb.Struct]{ClientStream: s}
	require.NoError(t, stream.Send(wrapperspb.UInt32(0)))
	require.NoError(t, stream.CloseSend())

	_, err = stream.Recv()
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestStream_SourceErrorPropagates(t *testing.T) {
	client := NewClientWithConn(dial(t, failingSource{}))
	err := client.Stream(ctxTimeout(t), 3, func(sensor.Emission) {})
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(errors.Unwrap(err)))
}

// #endregion stream-tests

// #region convert-tests
func TestConvert_RoundTrip(t *testing.T) {
	in := sensor.Reading{HeartRate: 88, Temperature: 36.9, Humidity: 55, At: time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)}
	out, err := fromStruct(toStruct(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConvert_MissingField(t *testing.T) {
	s := toStruct(sensor.Reading{HeartRate: 70})
	delete(s.Fields, fieldHumidity)
	_, err := fromStruct(s)
	assert.ErrorIs(t, err, ErrMalformedReading)

	s = toStruct(sensor.Reading{HeartRate: 70})
	s.Fields[fieldHeartRate] = structpb.NewStringValue("fast")
	_, err = fromStruct(s)
	assert.ErrorIs(t, err, ErrMalformedReading)
}

func TestConvert_MissingTimestamp(t *testing.T) {
	s := toStruct(sensor.Reading{HeartRate: 70})
	delete(s.Fields, fieldAt)
	r, err := fromStruct(s)
	require.NoError(t, err)
	assert.True(t, r.At.IsZero())
}

// #endregion convert-tests

func TestNewClient_Lazy(t *testing.T) {
	c, err := NewClient("localhost:0")
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.NoError(t, NewClientWithConn(nil).Close())
}

func TestOpenSource(t *testing.T) {
	src, closeFn, err := OpenSource("", 5)
	require.NoError(t, err)
	_, ok := src.(*sensor.Simulator)
	assert.True(t, ok)
	assert.NoError(t, closeFn())

	src, closeFn, err = OpenSource("localhost:0", 0)
	require.NoError(t, err)
	_, ok = src.(*Client)
	assert.True(t, ok)
	assert.NoError(t, closeFn())
}
