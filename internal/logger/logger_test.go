package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(&Config{Level: level, Format: "json", Output: buf}), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestNew_Defaults(t *testing.T) {
	assert.NotNil(t, New(nil))
	assert.NotNil(t, New(&Config{Level: "warn", Format: "json"}), "nil output")
}

func TestLevelOf(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"off":      zerolog.Disabled,
		"":         zerolog.InfoLevel,
		"trace":    zerolog.InfoLevel,
		"verbose":  zerolog.InfoLevel,
	} {
		assert.Equal(t, want, levelOf(in), in)
	}
}

func TestLogger_JSON(t *testing.T) {
	log, buf := jsonLogger("info")
	log.Infof("[ %s ] generated successful", "SCTestEntity.java")

	entry := lastEntry(t, buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "[ SCTestEntity.java ] generated successful", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_Console(t *testing.T) {
	buf := &bytes.Buffer{}
	New(&Config{Format: "console", NoColor: true, Output: buf}).
		With().Str(FieldTable, "SCTYPE").Logger().Info("introspected")

	assert.Contains(t, buf.String(), "introspected")
	assert.Contains(t, buf.String(), "table=SCTYPE")
}

func TestLogger_ForRun(t *testing.T) {
	log, buf := jsonLogger("debug")

	log.ForRun("0b5c", "app", "SCTYPE").With().Int("columns", 2).Bool("primary_key", true).Logger().Debug("table described")
	entry := lastEntry(t, buf)
	assert.Equal(t, "0b5c", entry[FieldRunID])
	assert.Equal(t, "app", entry[FieldDB])
	assert.Equal(t, "SCTYPE", entry[FieldTable])
	assert.Equal(t, float64(2), entry["columns"])
	assert.Equal(t, true, entry["primary_key"])

	log.ForRun("0b5d", "", "SCKIND").With().Err(errors.New("no such table")).Logger().Error("generation failed")
	entry = lastEntry(t, buf)
	assert.NotContains(t, entry, FieldDB)
	assert.Equal(t, "no such table", entry["error"])
}

func TestFromContext(t *testing.T) {
	log, buf := jsonLogger("info")
	FromContext(log.WithContext(context.Background())).Info("from context")
	assert.Equal(t, "from context", lastEntry(t, buf)["message"])

	prev := L()
	t.Cleanup(func() { SetGlobal(prev) })
	g, gbuf := jsonLogger("info")
	SetGlobal(g)
	SetGlobal(nil)

	FromContext(context.Background()).Warn("no logger attached")
	assert.Equal(t, "warn", lastEntry(t, gbuf)["level"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		log   func(*Logger)
		want  bool
	}{
		{"debug", func(l *Logger) { l.Debugf("%d", 1) }, true},
		{"info", func(l *Logger) { l.Debug("d") }, false},
		{"warn", func(l *Logger) { l.Warnf("w %s", "x") }, true},
		{"error", func(l *Logger) { l.Info("i") }, false},
		{"error", func(l *Logger) { l.Errorf("e %v", io.EOF) }, true},
		{"disabled", func(l *Logger) { l.Error("e") }, false},
	}
	for _, tt := range tests {
		log, buf := jsonLogger(tt.level)
		tt.log(log)
		assert.Equal(t, tt.want, buf.Len() > 0, tt.level)
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().With().Any("cols", []string{"ID"}).Logger().Error("dropped")
	})
}

func BenchmarkLogger_ForRun(b *testing.B) {
	log := New(&Config{Level: "info", Format: "json", Output: io.Discard})
	for i := 0; i < b.N; i++ {
		log.ForRun("r", "app", "SCTYPE").With().Int("column", i).Logger().Info("field emitted")
	}
}
