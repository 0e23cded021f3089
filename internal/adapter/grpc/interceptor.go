package grpc

import (
	"context"
	"crypto/subtle"
	"log"
	"runtime/debug"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenAuthFunc validates the authorization token from request metadata.
// If the token is missing or invalid, it returns status.Unauthenticated.
func TokenAuthFunc(validToken string) grpc_auth.AuthFunc {
	return func(ctx context.Context) (context.Context, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if subtle.ConstantTimeCompare([]byte(authHeaders[0]), []byte(validToken)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return ctx, nil
	}
}

// AuthInterceptor returns a gRPC unary server interceptor that rejects calls without a valid token.
// If valid, it calls the handler with the original context.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return grpc_auth.UnaryServerInterceptor(TokenAuthFunc(validToken))
}

// RecoveryInterceptor turns a panicking handler into codes.Internal instead of crashing the server
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(func(p any) error {
		log.Printf("[ERROR] grpc handler panic: %v\n%s", p, debug.Stack())
		return status.Errorf(codes.Internal, "internal error")
	}))
}

// UnaryChain runs recovery outside authentication so a panic in either still maps to
// codes.Internal. An empty token disables authentication.
func UnaryChain(validToken string) grpc.UnaryServerInterceptor {
	interceptors := []grpc.UnaryServerInterceptor{RecoveryInterceptor()}
	if validToken != "" {
		interceptors = append(interceptors, AuthInterceptor(validToken))
	}
	return grpc_middleware.ChainUnaryServer(interceptors...)
}

// ServerOptions installs UnaryChain on a server
func ServerOptions(validToken string) []grpc.ServerOption {
	return []grpc.ServerOption{grpc.UnaryInterceptor(UnaryChain(validToken))}
}
