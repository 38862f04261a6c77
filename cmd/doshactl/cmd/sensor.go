package cmd

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielpatrickdp/dosha-lens/internal/feed"
	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var sensorListen string

var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Run or query the sensor feed",
}

var sensorServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulated readings over gRPC",
	Long:  "Hosts the sensor feed backed by the local simulator. Seeded by DOSHA_SENSOR_SEED when set.",
	Args:  cobra.NoArgs,
	RunE:  runSensorServe,
}

var sensorReadCmd = &cobra.Command{
	Use:   "read [n]",
	Short: "Take n single readings (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSensorRead,
}

func init() {
	sensorServeCmd.Flags().StringVar(&sensorListen, "listen", "localhost:50061", "Address to listen on")
	sensorCmd.AddCommand(sensorServeCmd)
	sensorCmd.AddCommand(sensorReadCmd)
}

func runSensorServe(cmd *cobra.Command, args []string) error {
	sim, err := feed.NewSimulator(cfg.SensorSeed)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", sensorListen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", sensorListen, err)
	}

	srv := grpc.NewServer()
	feed.RegisterServer(srv, feed.NewSourceServer(sim, cfg.StreamInterval))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	log.Printf("sensor feed %s listening on %s", feed.ServiceName, lis.Addr())
	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func runSensorRead(cmd *cobra.Command, args []string) error {
	n, err := parseCount(args, 1)
	if err != nil {
		return err
	}
	src, closeSrc, err := feed.OpenSource(cfg.SensorAddr, cfg.SensorSeed)
	if err != nil {
		return err
	}
	defer closeSrc()

	out := writer(cmd)
	for i := 1; i <= n; i++ {
		r, err := src.Read(cmd.Context())
		if err != nil {
			return fmt.Errorf("read %d/%d: %w", i, n, err)
		}
		out.Reading(sensor.Emission{Seq: i, Reading: r})
	}
	return nil
}
