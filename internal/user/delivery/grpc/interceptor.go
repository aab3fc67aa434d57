package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/middleware"
)

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)
	if err != nil {
		logger.Warn(ctx).
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("duration", duration).
			Err(err).
			Msg("gRPC request failed")
	} else {
		logger.Info(ctx).
			Str("method", info.FullMethod).
			Dur("duration", duration).
			Msg("gRPC request completed")
	}

	return resp, err
}

// AuthInterceptor validates the bearer token in the authorization metadata
// and attaches the caller identity to the context.
func AuthInterceptor(tokens middleware.TokenValidator) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "metadata not provided")
		}

		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token not provided")
		}

		token, found := strings.CutPrefix(values[0], "Bearer ")
		if !found || token == "" {
			return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(middleware.ContextWithUserID(ctx, claims.UserID), req)
	}
}
