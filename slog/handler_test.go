package slog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type findingValuer string

func (f findingValuer) LogValue() slog.Value {
	return slog.StringValue("finding:" + string(f))
}

func TestNewHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.Equal(t,
		&DevModeHandler{w: buf, mu: &sync.Mutex{}, opts: &DevModeHandlerOptions{Level: slog.LevelDebug}},
		NewHandler(true, buf),
	)
	assert.IsType(t, &slog.JSONHandler{}, NewHandler(false, buf))
	assert.False(t, NewHandler(false, buf).Enabled(context.Background(), slog.LevelDebug))
}

func TestDevModeHandlerEnabled(t *testing.T) {
	cases := []struct {
		opts  *DevModeHandlerOptions
		level slog.Level
		want  bool
	}{
		{opts: nil, level: slog.LevelDebug, want: false},
		{opts: nil, level: slog.LevelInfo, want: true},
		{opts: &DevModeHandlerOptions{Level: slog.LevelDebug}, level: slog.LevelDebug, want: true},
		{opts: &DevModeHandlerOptions{Level: slog.LevelWarn}, level: slog.LevelInfo, want: false},
		{opts: &DevModeHandlerOptions{Level: slog.LevelWarn}, level: slog.LevelError, want: true},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v_%s", c.opts != nil, c.level), func(t *testing.T) {
			handler := NewDevModeHandler(&bytes.Buffer{}, c.opts)
			assert.Equal(t, c.want, handler.Enabled(context.Background(), c.level))
		})
	}
}

func TestDevModeHandlerWith(t *testing.T) {
	buf := &bytes.Buffer{}
	base := NewDevModeHandler(buf, nil)

	withAttrs := base.WithAttrs([]slog.Attr{slog.String("table", "users")}).(*DevModeHandler)
	assert.Empty(t, base.attrs)
	assert.Equal(t, []slog.Attr{slog.String("table", "users")}, withAttrs.attrs)
	assert.Same(t, base.mu, withAttrs.mu)

	withGroup := withAttrs.WithGroup("audit").(*DevModeHandler)
	assert.Empty(t, withAttrs.groups)
	assert.Equal(t, []string{"audit"}, withGroup.groups)
	assert.Equal(t, withAttrs.attrs, withGroup.attrs)

	more := withGroup.WithAttrs([]slog.Attr{slog.Int("batch", 2)}).(*DevModeHandler)
	assert.Equal(t, []slog.Attr{slog.String("table", "users"), slog.Int("batch", 2)}, more.attrs)
	assert.Len(t, withGroup.attrs, 1)
}

func TestLevelColors(t *testing.T) {
	assert.Equal(t, CyanBold, levelColor(slog.LevelDebug))
	assert.Equal(t, WhiteBold, levelColor(slog.LevelInfo))
	assert.Equal(t, YellowBold, levelColor(slog.LevelWarn))
	assert.Equal(t, RedBold, levelColor(slog.LevelError))
	assert.Equal(t, RedBold, levelColor(slog.LevelError+4))

	assert.Equal(t, "", messageColor(slog.LevelDebug))
	assert.Equal(t, "", messageColor(slog.LevelInfo))
	assert.Equal(t, Yellow, messageColor(slog.LevelWarn))
	assert.Equal(t, Red, messageColor(slog.LevelError))
}

func TestDevModeHandlerHandle(t *testing.T) {
	date := time.Date(2024, time.March, 5, 14, 30, 12, 0, time.UTC)

	t.Run("attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		handler := NewDevModeHandler(buf, nil).WithAttrs([]slog.Attr{slog.String("column", "email")})

		record := slog.NewRecord(date, slog.LevelInfo, "audit finished", 0)
		record.AddAttrs(
			slog.Int("checked", 5),
			slog.Any("finding", findingValuer("2")),
			slog.Group("options", slog.Bool("strict", true)),
		)
		require.NoError(t, handler.Handle(context.Background(), record))

		want := "\n[" + WhiteBold + "INFO" + Reset + "] 2024/03/05 14:30:12\n" +
			"audit finished" + Reset + "\n" +
			WhiteBold + "column: " + Reset + "email\n" +
			WhiteBold + "checked: " + Reset + "5\n" +
			WhiteBold + "finding: " + Reset + "finding:2\n" +
			WhiteBold + "options: " + Reset + "\n" +
			Indent + WhiteBold + "strict: " + Reset + "true\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("groups_and_multiline", func(t *testing.T) {
		buf := &bytes.Buffer{}
		handler := NewDevModeHandler(buf, nil).WithGroup("audit")

		record := slog.NewRecord(date, slog.LevelError, "query failed", 0)
		record.AddAttrs(slog.String("trace", "line 1\nline 2"))
		require.NoError(t, handler.Handle(context.Background(), record))

		want := "\n[" + RedBold + "ERROR" + Reset + "] 2024/03/05 14:30:12\n" +
			Red + "query failed" + Reset + "\n" +
			WhiteBold + "audit:" + Reset + "\n" +
			Indent + WhiteBold + "trace: " + Reset + "\n" + Indent + "line 1\nline 2\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("source", func(t *testing.T) {
		buf := &bytes.Buffer{}
		handler := NewDevModeHandler(buf, nil)

		pc, file, line, _ := runtime.Caller(0)
		record := slog.NewRecord(date, slog.LevelWarn, "slow query", pc)
		require.NoError(t, handler.Handle(context.Background(), record))

		want := "\n[" + YellowBold + "WARN" + Reset + "] 2024/03/05 14:30:12" +
			Gray + fmt.Sprintf(" (%s:%d)", file, line) + Reset + "\n" +
			Yellow + "slow query" + Reset + "\n"
		assert.Equal(t, want, buf.String())
	})
}
