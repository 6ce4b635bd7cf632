package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"breathe-backend/application/commands"
	"breathe-backend/application/mocks"
	"breathe-backend/domain/config"
	"breathe-backend/domain/user"
	appErrors "breathe-backend/pkg/errors"
)

func newUserHandler() (*UserHandler, *mocks.MockUserRepository, *mocks.MockEventPublisher) {
	users := new(mocks.MockUserRepository)
	publisher := new(mocks.MockEventPublisher)
	h := NewUserHandler(users, publisher, config.DefaultDomainConfig(), mocks.FixedClock{T: fixedNow}, zap.NewNop())
	return h, users, publisher
}

func TestUserHandler_HandleRegister(t *testing.T) {
	tests := []struct {
		name      string
		existing  *user.User
		lookupErr error
		wantErr   func(error) bool
	}{
		{
			name:      "new email",
			lookupErr: appErrors.NewNotFoundError("User"),
		},
		{
			name:     "email taken",
			existing: &user.User{ID: "other", Email: "ada@example.com"},
			wantErr:  appErrors.IsConflict,
		},
		{
			name:      "store failure",
			lookupErr: errors.New("timeout"),
			wantErr:   func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h, users, publisher := newUserHandler()

			users.On("GetByEmail", ctx, "ada@example.com").Return(tt.existing, tt.lookupErr)
			users.On("Save", ctx, mock.AnythingOfType("*user.User")).Return(nil)
			publisher.On("Publish", ctx, mock.Anything).Return(nil)

			err := h.HandleRegister(ctx, commands.RegisterUserCommand{
				UserID: "u1",
				Email:  "Ada@Example.com",
				Name:   "Ada",
				Goal:   "sleep",
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err))
				users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			users.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(u *user.User) bool {
				return u.ID == "u1" && u.Email == "ada@example.com" && u.Goal == "sleep"
			}))
		})
	}
}

func TestUserHandler_HandleLogin_CreatesUnknownUser(t *testing.T) {
	ctx := context.Background()
	h, users, publisher := newUserHandler()

	users.On("GetByEmail", ctx, "new@example.com").Return(nil, appErrors.NewNotFoundError("User"))
	users.On("Save", ctx, mock.AnythingOfType("*user.User")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	require.NoError(t, h.HandleLogin(ctx, commands.LoginUserCommand{UserID: "u9", Email: "new@example.com"}))
	users.AssertNumberOfCalls(t, "Save", 1)
}

func TestUserHandler_HandleLogin_ExistingUser(t *testing.T) {
	ctx := context.Background()
	h, users, _ := newUserHandler()

	users.On("GetByEmail", ctx, "ada@example.com").Return(&user.User{ID: "u1"}, nil)

	require.NoError(t, h.HandleLogin(ctx, commands.LoginUserCommand{UserID: "u9", Email: "ada@example.com"}))
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserHandler_HandleUpdateProfile(t *testing.T) {
	ctx := context.Background()
	h, users, _ := newUserHandler()
	u, err := user.New("u1", "ada@example.com", "Ada", fixedNow)
	require.NoError(t, err)

	users.On("GetByID", ctx, "u1").Return(u, nil)
	users.On("GetByEmail", ctx, "lovelace@example.com").Return(nil, appErrors.NewNotFoundError("User"))
	users.On("Save", ctx, u).Return(nil)

	name, email := "Ada Lovelace", "Lovelace@example.com"
	require.NoError(t, h.HandleUpdateProfile(ctx, commands.UpdateProfileCommand{UserID: "u1", Name: &name, Email: &email}))

	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "lovelace@example.com", u.Email)
}

func TestUserHandler_HandleUpdateProfile_NameTooLong(t *testing.T) {
	ctx := context.Background()
	h, users, _ := newUserHandler()
	u, err := user.New("u1", "ada@example.com", "Ada", fixedNow)
	require.NoError(t, err)
	users.On("GetByID", ctx, "u1").Return(u, nil)

	name := strings.Repeat("x", 51)
	err = h.HandleUpdateProfile(ctx, commands.UpdateProfileCommand{UserID: "u1", Name: &name})

	assert.True(t, appErrors.IsValidation(err))
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserHandler_HandleUpdateSettings(t *testing.T) {
	ctx := context.Background()
	h, users, _ := newUserHandler()
	u, err := user.New("u1", "ada@example.com", "Ada", fixedNow)
	require.NoError(t, err)
	users.On("GetByID", ctx, "u1").Return(u, nil)
	users.On("Save", ctx, u).Return(nil)

	off := false
	require.NoError(t, h.HandleUpdateSettings(ctx, commands.UpdateSettingsCommand{UserID: "u1", Notifications: &off}))

	assert.False(t, u.Settings.Notifications)
	assert.Equal(t, "09:00", u.Settings.ReminderTime)
}

func TestUserHandler_HandleUpdateSettings_LostWriteIsReported(t *testing.T) {
	ctx := context.Background()
	h, users, _ := newUserHandler()
	u, err := user.New("u1", "ada@example.com", "Ada", fixedNow)
	require.NoError(t, err)
	users.On("GetByID", ctx, "u1").Return(u, nil)
	users.On("Save", ctx, u).Return(appErrors.NewConcurrencyError("User"))

	on := true
	err = h.HandleUpdateSettings(ctx, commands.UpdateSettingsCommand{UserID: "u1", DarkMode: &on})

	assert.True(t, appErrors.IsConcurrency(err))
	assert.Equal(t, 409, appErrors.GetAppError(err).HTTPStatus)
}
