package endpoint

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// grpcTransport holds a lazily-connected gRPC channel. Generic JSON-RPC style
// calls are not available over gRPC; callers that need generated clients reach
// the connection through Endpoint.GRPCConn and run operation closures instead.
type grpcTransport struct {
	endpoint string
	conn     *grpc.ClientConn
}

func newGRPCTransport(endpoint string) (*grpcTransport, error) {
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "https://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc channel for %s: %w", target, err)
	}

	return &grpcTransport{endpoint: endpoint, conn: conn}, nil
}

func (t *grpcTransport) Call(ctx context.Context, method string, params []any) (any, error) {
	return nil, fmt.Errorf("grpc endpoint %s: generic calls unsupported, use an operation handler", t.endpoint)
}

// Probe forces the channel to connect and waits until it is ready or the
// context expires. TransientFailure counts as a probe failure.
func (t *grpcTransport) Probe(ctx context.Context, _ string) error {
	t.conn.Connect()
	state := t.conn.GetState()
	for state != connectivity.Ready {
		if state == connectivity.TransientFailure || state == connectivity.Shutdown {
			return fmt.Errorf("grpc channel %s: %s", t.endpoint, state)
		}
		if !t.conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
		state = t.conn.GetState()
	}
	return nil
}

func (t *grpcTransport) Close() error {
	return t.conn.Close()
}

// GRPCConn exposes the underlying channel for generated clients. Returns nil
// for non-gRPC endpoints.
func (e *Endpoint) GRPCConn() *grpc.ClientConn {
	if t, ok := e.client.(*grpcTransport); ok {
		return t.conn
	}
	return nil
}
