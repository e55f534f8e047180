package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	_ gormlogger.Interface = (*GormLogger)(nil)
	_ gorm.ParamsFilter    = (*GormLogger)(nil)
)

func query(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info)
	changed := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.level)
	assert.Equal(t, gormlogger.Warn, changed.(*GormLogger).level)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		opts      []GormLoggerOption
		elapsed   time.Duration
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{"failure logs at error", gormlogger.Error, nil, 0, errors.New("deadlock detected"), "Query failed", zapcore.ErrorLevel},
		{"missing product is not a failure", gormlogger.Info, nil, 0, gormlogger.ErrRecordNotFound, "Query", zapcore.DebugLevel},
		{"slow query warns", gormlogger.Warn, []GormLoggerOption{WithSlowThreshold(time.Millisecond)}, time.Second, nil, "Slow query", zapcore.WarnLevel},
		{"zero threshold disables slow warnings", gormlogger.Warn, []GormLoggerOption{WithSlowThreshold(0)}, time.Second, nil, "", 0},
		{"fast query below info is dropped", gormlogger.Warn, nil, 0, nil, "", 0},
		{"fast query at info logs at debug", gormlogger.Info, nil, 0, nil, "Query", zapcore.DebugLevel},
		{"silent logs nothing", gormlogger.Silent, nil, 0, errors.New("boom"), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gormLog := NewGormLogger(zap.New(core), tt.level, tt.opts...)

			gormLog.Trace(context.Background(), time.Now().Add(-tt.elapsed), query(`SELECT * FROM "products"`, 1), tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, `SELECT * FROM "products"`, entry.ContextMap()["sql"])
		})
	}
}

func TestGormLogger_Trace_SkipsRenderingWhenFiltered(t *testing.T) {
	core, _ := observer.New(zapcore.WarnLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

	rendered := false
	gormLog.Trace(context.Background(), time.Now(), func() (string, int64) {
		rendered = true
		return "SELECT 1", 0
	}, nil)

	assert.False(t, rendered)
}

func TestGormLogger_Trace_CarriesRequestFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

	ctx := WithOwnerID(WithRequestID(context.Background(), "req-1"), "owner-1")
	gormLog.Trace(ctx, time.Now(), query(`SELECT * FROM "draft_orders"`, 0), nil)
	gormLog.Warn(ctx, "duplicate key on %s", "slug")

	require.Equal(t, 2, recorded.Len())
	for _, entry := range recorded.All() {
		fields := entry.ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "owner-1", fields["owner_id"])
	}
	assert.Equal(t, "duplicate key on slug", recorded.All()[1].Message)
}

func TestGormLogger_PrintfRespectsLevel(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Error)

	gormLog.Info(context.Background(), "migrating %d tables", 2)
	gormLog.Warn(context.Background(), "deprecated option")
	gormLog.Error(context.Background(), "connection lost")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, zapcore.ErrorLevel, recorded.All()[0].Level)
}

func TestGormLogger_QueryParams(t *testing.T) {
	tests := []struct {
		name      string
		logParams bool
		wantValue bool
	}{
		{"bound values are hidden by default", false, false},
		{"bound values are inlined when enabled", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer sqlDB.Close()

			core, recorded := observer.New(zapcore.DebugLevel)
			db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
				Logger: NewGormLogger(zap.New(core), gormlogger.Info, WithQueryParams(tt.logParams)),
			})
			require.NoError(t, err)

			mock.ExpectQuery(`SELECT \* FROM "draft_orders"`).
				WithArgs("owner-1").
				WillReturnRows(sqlmock.NewRows([]string{"id"}))

			var rows []map[string]any
			require.NoError(t, db.Table("draft_orders").Where("owner_id = ?", "owner-1").Find(&rows).Error)
			require.NoError(t, mock.ExpectationsWereMet())

			entries := recorded.FilterMessage("Query").All()
			require.Len(t, entries, 1)
			sql, _ := entries[0].ContextMap()["sql"].(string)
			assert.Contains(t, sql, `FROM "draft_orders"`)
			if tt.wantValue {
				assert.Contains(t, sql, "'owner-1'")
			} else {
				assert.NotContains(t, sql, "owner-1")
				assert.Contains(t, sql, "owner_id = $1")
			}
		})
	}
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
