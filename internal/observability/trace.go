package observability

import "context"

// StartTrace injects trace, span and request ids into the context unless a request id is
// already present.
func StartTrace(ctx context.Context) context.Context {
	if GetRequestID(ctx) != "" {
		return ctx
	}

	ctx = WithTraceID(ctx, GenerateTraceID())
	ctx = WithSpanID(ctx, GenerateSpanID())
	return WithRequestID(ctx, GenerateRequestID())
}
