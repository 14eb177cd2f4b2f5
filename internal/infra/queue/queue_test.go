package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RepairService/internal/config"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(level, format string, v ...interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Debug(format string, v ...interface{}) { l.record("DEBUG", format, v...) }
func (l *recordingLogger) Info(format string, v ...interface{})  { l.record("INFO", format, v...) }
func (l *recordingLogger) Warn(format string, v ...interface{})  { l.record("WARN", format, v...) }
func (l *recordingLogger) Error(format string, v ...interface{}) { l.record("ERROR", format, v...) }
func (l *recordingLogger) Fatal(format string, v ...interface{}) { l.record("FATAL", format, v...) }

func TestRedisClientOpt(t *testing.T) {
	opt := RedisClientOpt(config.QueueConfig{RedisAddr: "redis:6379", RedisPassword: "secret", RedisDB: 2})

	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
}

func TestLoggerAdapter(t *testing.T) {
	rec := &recordingLogger{}
	l := NewLogger(rec)

	l.Info("Starting processing")
	l.Warn("retry ", 3)
	l.Error("boom")

	assert.Equal(t, []string{
		"INFO asynq: Starting processing",
		"WARN asynq: retry 3",
		"ERROR asynq: boom",
	}, rec.lines)
}
