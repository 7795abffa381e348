package logger

import (
	"testing"

	"github.com/smartystreets/assertions"
	"go.uber.org/zap/zapcore"
)

func TestSetupLogger(t *testing.T) {
	a := assertions.New(t)

	log, err := SetupLogger(ModeProduction, "warn")
	a.So(err, assertions.ShouldBeNil)
	a.So(log.Core().Enabled(zapcore.WarnLevel), assertions.ShouldBeTrue)
	a.So(log.Core().Enabled(zapcore.InfoLevel), assertions.ShouldBeFalse)

	log, err = SetupLogger(ModeDevelopment, "debug")
	a.So(err, assertions.ShouldBeNil)
	a.So(log.Core().Enabled(zapcore.DebugLevel), assertions.ShouldBeTrue)
}

func TestSetupLoggerInvalid(t *testing.T) {
	a := assertions.New(t)

	_, err := SetupLogger(ModeProduction, "loud")
	a.So(err, assertions.ShouldNotBeNil)

	_, err = SetupLogger("verbose", "info")
	a.So(err, assertions.ShouldNotBeNil)
}
