package server

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const (
	HeaderRequestID   = "X-Request-ID"
	metadataRequestID = "x-request-id"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID reads the id set by the HTTP middleware, falling back to
// incoming gRPC metadata.
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(metadataRequestID); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
