// Package logger provides the structured logging contract for the credit scoring service.
// The concrete zap-backed implementation lives in internal/infrastructure/monitoring.
package logger

import (
	"context"
	"time"
)

// Logger 结构化日志接口。request_id 等上下文字段由实现从 ctx 中提取。
type Logger interface {
	Debug(ctx context.Context, message string, fields ...Field)
	Info(ctx context.Context, message string, fields ...Field)
	Warn(ctx context.Context, message string, fields ...Field)
	Error(ctx context.Context, message string, err error, fields ...Field)
	// Fatal logs and exits the process.
	Fatal(ctx context.Context, message string, err error, fields ...Field)

	WithFields(fields ...Field) Logger
	// WithComponent tags every entry with component=name.
	WithComponent(component string) Logger
}

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// ==================== 通用字段 ====================

func String(key, value string) Field { return Field{key, value} }
func Strings(key string, value []string) Field { return Field{key, value} }
func Int(key string, value int) Field { return Field{key, value} }
func Int64(key string, value int64) Field { return Field{key, value} }
func Float64(key string, value float64) Field { return Field{key, value} }
func Bool(key string, value bool) Field { return Field{key, value} }
func Duration(key string, value time.Duration) Field { return Field{key, value} }
func Any(key string, value interface{}) Field { return Field{key, value} }

// Time renders t as UTC RFC3339Nano.
func Time(key string, t time.Time) Field {
	return Field{key, t.UTC().Format(time.RFC3339Nano)}
}

// Err stores the error message under "error"; a nil error yields a nil value.
func Err(err error) Field {
	if err == nil {
		return Field{"error", nil}
	}
	return Field{"error", err.Error()}
}

// ==================== 决策字段 ====================

// ApplicantID tags entries with the scored applicant.
func ApplicantID(id string) Field { return Field{"applicant_id", id} }

// DecisionID tags entries with a persisted decision.
func DecisionID(id string) Field { return Field{"decision_id", id} }

// RiskLevel tags entries with the final risk band.
func RiskLevel(level string) Field { return Field{"risk_level", level} }

var global Logger = NewNoopLogger()

// SetGlobalLogger replaces the process-wide logger; nil restores the no-op logger.
func SetGlobalLogger(l Logger) {
	if l == nil {
		l = NewNoopLogger()
	}
	global = l
}

// L returns the process-wide logger.
func L() Logger { return global }

//Personal.AI order the ending
