package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// SetupLogger builds the process logger. Development mode writes colored
// console lines, anything else writes sampled JSON.
func SetupLogger(logMode, logLevel string) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, errors.WithMessagef(err, "parsing log level %q", logLevel)
	}

	var l zap.Config
	switch logMode {
	case ModeDevelopment:
		l = zap.NewDevelopmentConfig()
		l.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case ModeProduction, "":
		l = zap.NewProductionConfig()
		l.Sampling = &zap.SamplingConfig{Initial: 1, Thereafter: 2}
		l.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, errors.Errorf("unknown log mode %q", logMode)
	}

	l.Level = lvl
	l.OutputPaths = []string{"stderr"}
	l.ErrorOutputPaths = []string{"stderr"}

	log, err := l.Build()
	if err != nil {
		return nil, errors.WithMessage(err, "building logger")
	}
	return log.Named("curtain"), nil
}
