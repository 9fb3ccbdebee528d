package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lakedeck/lakedeck/constants"
)

// stdout is reserved for typed protocol rows; human logs go to stderr and
// the rotating file under the config folder.
var instance = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Init attaches the rotating file sink; called by the root command once the
// config folder is resolved.
func Init() {
	logDir := filepath.Join(viper.GetString(constants.ConfigFolder), "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		Warnf("failed to create log directory %s: %s", logDir, err)
		return
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "lakedeck.log"),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	instance = zerolog.New(zerolog.MultiLevelWriter(console, fileSink)).
		With().Timestamp().Logger()
}

func Debug(v ...any) {
	instance.Debug().Msg(fmt.Sprint(v...))
}

func Debugf(format string, v ...any) {
	instance.Debug().Msgf(format, v...)
}

func Info(v ...any) {
	instance.Info().Msg(fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	instance.Info().Msgf(format, v...)
}

func Warn(v ...any) {
	instance.Warn().Msg(fmt.Sprint(v...))
}

func Warnf(format string, v ...any) {
	instance.Warn().Msgf(format, v...)
}

func Error(v ...any) {
	instance.Error().Msg(fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	instance.Error().Msgf(format, v...)
}

func Fatal(v ...any) {
	instance.Fatal().Msg(fmt.Sprint(v...))
}

func Fatalf(format string, v ...any) {
	instance.Fatal().Msgf(format, v...)
}
