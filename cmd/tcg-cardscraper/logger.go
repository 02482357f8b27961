package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeandeaual/tcg-cardscraper/config"
)

func newLogger(conf config.LogConfig, debug bool) (*zap.Logger, error) {
	var zapConf zap.Config

	if debug {
		zapConf = zap.NewDevelopmentConfig()
		zapConf.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	} else {
		zapConf = zap.NewProductionConfig()
		zapConf.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
		zapConf.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		zapConf.EncoderConfig.EncodeCaller = nil

		level, err := zapcore.ParseLevel(conf.Level)
		if err != nil {
			return nil, err
		}
		zapConf.Level = zap.NewAtomicLevelAt(level)
	}

	if conf.Format == "json" {
		zapConf.Encoding = "json"
	} else {
		zapConf.Encoding = "console"
	}

	// Skip 1 caller, since all log calls will be done from tcg-cardscraper/log
	return zapConf.Build(zap.AddCallerSkip(1))
}
