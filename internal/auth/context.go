package auth

import (
	"context"
	"crypto/subtle"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const apiKeyHeader = "x-api-key"

// GetAPIKey reads the operator api key from incoming gRPC metadata.
func GetAPIKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(apiKeyHeader); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// APIKeyInterceptor guards the listed full method names with the api key.
// An empty key disables every guarded method.
func APIKeyInterceptor(key string, guarded ...string) grpc.UnaryServerInterceptor {
	protected := make(map[string]bool, len(guarded))
	for _, m := range guarded {
		protected[m] = true
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !protected[info.FullMethod] {
			return handler(ctx, req)
		}
		if key == "" {
			return nil, status.Error(codes.PermissionDenied, "operator api key is not configured")
		}
		if subtle.ConstantTimeCompare([]byte(GetAPIKey(ctx)), []byte(key)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "missing or invalid api key")
		}
		return handler(ctx, req)
	}
}
