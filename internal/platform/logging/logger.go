package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger writes key/value pairs through zap. The *Context methods also add the
// active trace ids and any fields attached with ContextWith.
type Logger struct {
	base   *zap.Logger
	synced *atomic.Bool
}

var fallback atomic.Pointer[Logger]

func init() {
	fallback.Store(NewNop())
}

type Options struct {
	Level   Level
	Console bool
	Output  io.Writer
	Service string
	Version string
}

// ParseLevel accepts debug, info, warn or error (case-insensitive).
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

func New(opts Options) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	if opts.Console {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	fields := make([]zap.Field, 0, 2)
	if opts.Service != "" {
		fields = append(fields, zap.String("service", opts.Service))
	}
	if opts.Version != "" {
		fields = append(fields, zap.String("version", opts.Version))
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), opts.Level)
	return wrap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel), zap.Fields(fields...)))
}

func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{base: z, synced: new(atomic.Bool)}
}

// Default is the process-wide logger used by constructors that receive nil.
func Default() *Logger {
	if logger := fallback.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	fallback.Store(logger)
}

// Core exposes the underlying zap core so it can be teed elsewhere.
func (l *Logger) Core() zapcore.Core {
	if l == nil || l.base == nil {
		return zapcore.NewNopCore()
	}
	return l.base.Core()
}

// Sync flushes buffered entries once; later calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.base == nil {
		return nil
	}
	if l.synced.CompareAndSwap(false, true) {
		return l.base.Sync()
	}
	return nil
}

// Tee returns a logger that also writes every entry to core.
func (l *Logger) Tee(core zapcore.Core) *Logger {
	if l == nil {
		l = Default()
	}
	if core == nil {
		return l
	}
	return wrap(l.base.WithOptions(zap.WrapCore(func(base zapcore.Core) zapcore.Core {
		return zapcore.NewTee(base, core)
	})))
}

func (l *Logger) Debug(msg string, args ...any) {
	l.emit(context.Background(), zapcore.DebugLevel, msg, args)
}

func (l *Logger) Info(msg string, args ...any) {
	l.emit(context.Background(), zapcore.InfoLevel, msg, args)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.emit(context.Background(), zapcore.WarnLevel, msg, args)
}

func (l *Logger) Error(msg string, args ...any) {
	l.emit(context.Background(), zapcore.ErrorLevel, msg, args)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, zapcore.DebugLevel, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, zapcore.InfoLevel, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, zapcore.WarnLevel, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, zapcore.ErrorLevel, msg, args)
}

func (l *Logger) emit(ctx context.Context, level zapcore.Level, msg string, args []any) {
	if l == nil {
		l = Default()
	}
	ce := l.base.Check(level, msg)
	if ce == nil {
		return
	}

	fields := pairsToFields(args)
	if ctx != nil {
		fields = append(fields, scopedFields(ctx)...)
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
	}
	ce.Write(fields...)
}

type scopedFieldsKey struct{}

// ContextWith attaches key/value pairs to ctx. Every *Context call made with
// the returned context logs them, which is how the caller of an authenticated
// request shows up in use case logs.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	merged := append(slices.Clip(scopedFields(ctx)), pairsToFields(args)...)
	return context.WithValue(ctx, scopedFieldsKey{}, merged)
}

func scopedFields(ctx context.Context) []zap.Field {
	fields, _ := ctx.Value(scopedFieldsKey{}).([]zap.Field)
	return fields
}

// pairsToFields reads args as key, value, key, value. A dangling key logs a
// null value and a non-string key is logged as "arg".
func pairsToFields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2+4)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}
		if i+1 == len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}

		if err, ok := args[i+1].(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}
		out = append(out, zap.Any(key, args[i+1]))
	}
	return out
}
