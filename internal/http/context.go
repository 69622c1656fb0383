package http

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	loggerContextKey     contextKey = "logger"
	roomIDContextKey     contextKey = "room_id"
	promptNameContextKey contextKey = "prompt_name"
)

// ContextWithLogger returns a derived context carrying a request-scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext extracts a request-scoped logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerContextKey).(*slog.Logger)
	return logger
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithPromptName injects the prompt name resolved from the request path.
func ContextWithPromptName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, promptNameContextKey, name)
}

// PromptNameFromContext extracts a prompt name previously associated with the context.
func PromptNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(promptNameContextKey).(string)
	return name, ok
}
