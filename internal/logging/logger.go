// Package logging задает минимальный интерфейс структурированного логирования,
// которым пользуются сервисы и обработчики.
package logging

import "context"

// Logger структурированный логгер с поддержкой контекста.
//
// Аргументы args интерпретируются как пары ключ-значение:
//
//	log.Info(ctx, "counter incremented", "value", value)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With возвращает дочерний логгер с постоянными парами ключ-значение
	With(args ...any) Logger
}
