package logsvc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

// ConsoleLogger writes structured logs to stderr.
type ConsoleLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ConsoleLogger)(nil)

// NewConsoleLogger returns a human readable logger in debug mode, a JSON one otherwise.
func NewConsoleLogger(conf *core.Config) (*ConsoleLogger, error) {
	cfg := zap.NewProductionConfig()
	if conf.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ConsoleLogger{sugar: zl.Sugar().With("app", conf.AppName, "env", conf.Env)}, nil
}

// NewNopLogger discards everything, for tests.
func NewNopLogger() *ConsoleLogger {
	return &ConsoleLogger{sugar: zap.NewNop().Sugar()}
}

func (l *ConsoleLogger) Sync() {
	_ = l.sugar.Sync()
}

// fields converts the logger args to zap key/value pairs.
// expected fmt: error, map[string]interface{}, session.Actor
func fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, 2*len(args))
	for i, arg := range args {
		switch arg := arg.(type) {
		case error:
			kvs = append(kvs, zap.Error(arg))
		case map[string]interface{}:
			for k, v := range arg {
				kvs = append(kvs, k, v)
			}
		case session.Actor:
			kvs = append(kvs, "actor", arg.ID, "role", string(arg.Role))
		default:
			kvs = append(kvs, fmt.Sprintf("arg%d", i), arg)
		}
	}
	return kvs
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugw(msg, fields(args)...)
}

func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.sugar.Infow(msg, fields(args)...)
}

func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnw(msg, fields(args)...)
}

func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.sugar.Errorw(msg, fields(args)...)
}

func (l *ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalw(msg, fields(args)...)
}
