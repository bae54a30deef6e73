package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/masomo-insights/core"
)

func TestFields(t *testing.T) {
	sess := core.Session{UserID: "u1", SchoolID: "sch1"}
	got := fields([]interface{}{sess, map[string]interface{}{"survey": "srv1"}, 42})

	want := []interface{}{"user_id", "u1", "school_id", "sch1", "survey", "srv1", "arg2", 42}
	assert.Equal(t, want, got)
}

func TestRollbarLogger_prepare(t *testing.T) {
	err := errors.New("boom")
	sess := core.Session{UserID: "u1", Username: "kim"}

	got := RollbarLogger{}.prepare("failed", []interface{}{err, sess, core.Session{UserID: "u2"}})
	assert.Equal(t, []interface{}{"failed", err}, got)
}

func TestRollbarLogger_print(t *testing.T) {
	zcore, logs := observer.New(zap.DebugLevel)
	l := RollbarLogger{zl: zap.New(zcore).Sugar()}
	l.Enable(false)

	l.Info("survey analyzed", core.Session{UserID: "u1", SchoolID: "sch1"})
	l.Warn("slow query", map[string]interface{}{"ms": 1200})

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "survey analyzed", entries[0].Message)
		assert.Equal(t, map[string]interface{}{"user_id": "u1", "school_id": "sch1"}, entries[0].ContextMap())
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, map[string]interface{}{"ms": int64(1200)}, entries[1].ContextMap())
	}
}
