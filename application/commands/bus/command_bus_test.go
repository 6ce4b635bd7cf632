package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type pingCommand struct {
	UserID string
}

func (c pingCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("user id is required")
	}
	return nil
}

type unregisteredCommand struct{}

func (unregisteredCommand) Validate() error { return nil }

func TestCommandBus_Send(t *testing.T) {
	// Arrange
	var handled []string
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = append(handled, cmd.(pingCommand).UserID)
		return nil
	})))

	// Act
	err := b.Send(context.Background(), pingCommand{UserID: "u1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, handled)
}

func TestCommandBus_Errors(t *testing.T) {
	boom := errors.New("boom")
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return boom
	})))

	t.Run("duplicate registration", func(t *testing.T) {
		err := b.Register(pingCommand{}, CommandHandlerFunc(func(context.Context, Command) error { return nil }))
		assert.Error(t, err)
	})

	t.Run("validation runs before the handler", func(t *testing.T) {
		err := b.Send(context.Background(), pingCommand{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "user id is required")
	})

	t.Run("handler error is wrapped", func(t *testing.T) {
		err := b.Send(context.Background(), pingCommand{UserID: "u1"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unknown command", func(t *testing.T) {
		err := b.Send(context.Background(), unregisteredCommand{})
		assert.ErrorIs(t, err, ErrHandlerNotFound)
	})
}

func TestCommandBus_MiddlewareOrder(t *testing.T) {
	var trail []string
	tag := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				trail = append(trail, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	b := NewCommandBus(tag("outer"), tag("inner"))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		trail = append(trail, "handler")
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{UserID: "u1"}))

	assert.Equal(t, []string{"outer", "inner", "handler"}, trail)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := NewCommandBus(LoggingMiddleware(zap.New(core)))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		if cmd.(pingCommand).UserID == "bad" {
			return errors.New("rejected")
		}
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{UserID: "ok"}))
	require.Error(t, b.Send(context.Background(), pingCommand{UserID: "bad"}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Command succeeded", entries[0].Message)
	assert.Equal(t, "Command failed", entries[1].Message)
	assert.Equal(t, "pingCommand", entries[1].ContextMap()["type"])
}
