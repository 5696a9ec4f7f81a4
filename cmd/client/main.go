package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"collabsync/internal/ops"
	"collabsync/pkg/transport"

	pyroscope "github.com/grafana/pyroscope-go"
)

func main() {
	if err := run(); err != nil {
		log.Printf("client: %v", err)
		os.Exit(1)
	}
}

func run() error {
	endpointFlag := flag.String("endpoint", "ws://localhost:8080/sync", "collaboration server endpoint")
	configFlag := flag.String("config", "", "YAML config path (overrides -endpoint)")
	pyroscopeFlag := flag.String("pyroscope", "", "pyroscope server address (empty disables profiling)")
	flag.Parse()

	if *pyroscopeFlag != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "collabsync/client",
			ServerAddress:   *pyroscopeFlag,
			Tags: map[string]string{
				"env": "local",
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return fmt.Errorf("pyroscope start failed: %w", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	cfg := transport.Config{Endpoint: *endpointFlag}
	if *configFlag != "" {
		loaded, err := ops.Load(*configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	client, err := transport.NewClient(cfg)
	if err != nil {
		return err
	}

	client.On(transport.Handlers{
		OnStateChange: func(state transport.State) {
			log.Printf("state: %s", state)
		},
		OnError: func(err error) {
			log.Printf("transport error: %v", err)
		},
		OnMessage: func(msg transport.Message) {
			log.Printf("recv %s: %v", msg.Type, msg.Fields)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client.Connect()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			client.Send(transport.Message{
				Type:   "edit",
				Fields: map[string]any{"text": line},
			})
		}
	}()

	<-ctx.Done()
	client.Disconnect()
	stats := client.Stats()
	log.Printf("sent=%d received=%d reconnects=%d pending=%d",
		stats.Sent, stats.Received, stats.Reconnects, client.Pending())
	return nil
}
