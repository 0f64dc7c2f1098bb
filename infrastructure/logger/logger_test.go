package logger

import (
	"context"
	"testing"

	"github.com/prasetyowira/shortlink/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Environments(t *testing.T) {
	for _, env := range []string{constant.EnvLocal, constant.EnvDev, constant.EnvProd} {
		t.Run(env, func(t *testing.T) {
			l, err := New(env)

			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_UnknownEnvironment(t *testing.T) {
	l, err := New("staging")

	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNew_ProdSkipsDebug(t *testing.T) {
	l, err := New(constant.EnvProd)
	require.NoError(t, err)

	assert.False(t, l.zl.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.zl.Core().Enabled(zapcore.InfoLevel))
}

func TestLogger_Fields(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))
	ctx := WithRequestID(context.Background(), "req-1")

	// Act
	l.Error(ctx, "boom", LoggerInfo{
		ContextFunction: constant.CtxSave,
		Error: &CustomError{
			Code:    constant.ErrCodeDBInsert,
			Message: "disk full",
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataAlias: "abcd",
		},
	})

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "boom", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields[constant.LogRequestIDKey])
	assert.Equal(t, constant.CtxSave, fields[constant.LogFunctionKey])
	assert.Equal(t, constant.ErrCodeDBInsert, fields[constant.LogErrorCodeKey])
	assert.Equal(t, constant.ErrTypeDB, fields[constant.LogErrorTypeKey])
	assert.Equal(t, "disk full", fields[constant.LogErrorMessageKey])
	assert.Equal(t, "abcd", fields[constant.DataAlias])
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "x", RequestID(WithRequestID(context.Background(), "x")))
}
