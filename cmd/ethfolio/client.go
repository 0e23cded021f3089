package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	ethfoliov1 "github.com/simaogato/ethfolio-backend/internal/adapter/grpc/ethfolio/v1"
)

var (
	serverAddr = flag.String("addr", envOr("ETHFOLIO_ADDR", "localhost:8080"), "gRPC address of the ethfolio server")
	apiToken   = flag.String("token", envOr("API_TOKEN", "dev-token"), "API token sent as authorization metadata")
	timeout    = flag.Duration("timeout", 15*time.Second, "Timeout of a single request")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// dial opens a client connection and returns a context carrying the API token.
// The caller must invoke the returned cleanup.
func dial(ctx context.Context) (*ethfoliov1.PortfolioServiceClient, context.Context, func(), error) {
	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to %s: %w", *serverAddr, err)
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", *apiToken)

	cleanup := func() {
		cancel()
		conn.Close()
	}
	return ethfoliov1.NewPortfolioServiceClient(conn), ctx, cleanup, nil
}
