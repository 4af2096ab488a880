package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	var err error
	L, err = config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
}

// WithComponent returns a logger tagged with the component name, for use by
// handlers, services and the webhook pipeline.
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}
