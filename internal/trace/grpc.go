package trace

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor continues the caller's trace for unary RPCs and logs
// each call.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = extractMetadata(ctx)
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(ctx, info.FullMethod, start, err)
		return resp, err
	}
}

// StreamServerInterceptor continues the caller's trace for streaming RPCs.
func StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := extractMetadata(ss.Context())
		start := time.Now()
		err := handler(srv, &tracedStream{ServerStream: ss, ctx: ctx})
		logCall(ctx, info.FullMethod, start, err)
		return err
	}
}

type tracedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context { return s.ctx }

// extractMetadata reads trace ids from incoming gRPC metadata.
func extractMetadata(ctx context.Context) context.Context {
	m := make(map[string]string, 2)
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, k := range []string{TraceIDKey, SpanIDKey} {
			if v := md.Get(k); len(v) > 0 {
				m[k] = v[0]
			}
		}
	}
	return WithContext(ctx, FromMap(m))
}

func logCall(ctx context.Context, method string, start time.Time, err error) {
	log := Logger(ctx).With("method", method, "duration", time.Since(start))
	if err != nil {
		log.Warn("rpc failed", "code", status.Code(err).String(), "error", err)
		return
	}
	log.Debug("rpc")
}
