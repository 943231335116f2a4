package grpcserver

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "x-request-id"

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDHeader); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

// LoggingUnary returns a unary server interceptor for structured logging.
// It echoes the request id (taken from the caller or generated) in the response header.
func LoggingUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		rid := requestID(ctx)
		if rid != "" {
			_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, rid))
		}
		resp, err := next(ctx, req)
		code := status.Code(err)

		var remote string
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			remote = p.Addr.String()
		}
		caller, _ := IdentityFromCtx(ctx)

		// metadata only, never payloads
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("dur", time.Since(start)),
			zap.String("peer", remote),
			zap.String("request_id", rid),
			zap.String("caller", caller),
		}
		if code == codes.Internal || code == codes.Unknown {
			log.Error("grpc", append(fields, zap.Error(err))...)
		} else {
			log.Info("grpc", fields...)
		}
		return resp, err
	}
}

// RecoverUnary returns a unary server interceptor that recovers from panics.
func RecoverUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", info.FullMethod),
				)
				err = status.Error(codes.Internal, "internal")
			}
		}()
		return next(ctx, req)
	}
}

// AuthUnary verifies a bearer token when one is present and stores its subject with
// WithIdentity. Requests without a valid token pass through; handlers reject them.
func AuthUnary(signKey []byte) grpc.UnaryServerInterceptor {
	s := &Server{signKey: signKey}
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if id, err := s.identityFromMD(ctx); err == nil {
			ctx = WithIdentity(ctx, id)
		}
		return next(ctx, req)
	}
}
