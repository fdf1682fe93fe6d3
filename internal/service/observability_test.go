package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	done := track(context.Background(), obs, "import-festivals", map[string]any{"rows": 3})
	done(nil)
	assert.Contains(t, buf.String(), "service_use_case")
	assert.Contains(t, buf.String(), "use_case=import-festivals")
	assert.Contains(t, buf.String(), "rows=3")
	assert.Contains(t, buf.String(), "success=true")

	buf.Reset()
	track(context.Background(), obs, "enrich-festival", nil)(errors.New("db locked"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `error="db locked"`)
}

func TestNewLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
