package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware logs every incoming method call with its duration and,
// where the request names one, the tool, prompt or resource involved. Tool
// results flagged as errors are logged at warn level.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := append(requestAttrs(req),
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)

			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			case isToolError(result):
				slog.LogAttrs(ctx, slog.LevelWarn, "tool returned an error", attrs...)
			default:
				slog.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}

func requestAttrs(req sdkmcp.Request) []slog.Attr {
	switch r := req.(type) {
	case *sdkmcp.CallToolRequest:
		if r.Params != nil {
			return []slog.Attr{slog.String("tool", r.Params.Name)}
		}
	case *sdkmcp.GetPromptRequest:
		if r.Params != nil {
			return []slog.Attr{slog.String("prompt", r.Params.Name)}
		}
	case *sdkmcp.ReadResourceRequest:
		if r.Params != nil {
			return []slog.Attr{slog.String("uri", r.Params.URI)}
		}
	}
	return nil
}

func isToolError(result sdkmcp.Result) bool {
	res, ok := result.(*sdkmcp.CallToolResult)
	return ok && res != nil && res.IsError
}
