package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/service"
	"wordfeed/internal/testutil"
)

func passThrough(called *bool) tele.HandlerFunc {
	return func(tele.Context) error {
		*called = true
		return nil
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		ensureErr  error
		authorized bool
		checkErr   error
		callback   bool
		wantNext   bool
		wantText   string
	}{
		{name: "authorized", authorized: true, wantNext: true},
		{name: "asks for password", wantText: textAskPassword},
		{name: "callback gets alert", callback: true, wantText: textAskPassword},
		{name: "user upsert fails", ensureErr: errors.New("db down"), wantText: textGenericError},
		{name: "lookup fails", checkErr: errors.New("db down"), wantText: textGenericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("EnsureUserExists", mock.Anything, int64(7)).Return(tt.ensureErr)
			repo.On("IsAuthorized", mock.Anything, int64(7)).Return(tt.authorized, tt.checkErr).Maybe()

			var c *testutil.FakeContext
			if tt.callback {
				c = testutil.NewCallbackContext(7, "")
			} else {
				c = testutil.NewCommandContext(7, "/words")
			}

			called := false
			mw := AuthMiddleware(service.NewAuthService(repo, "pw", ""), testutil.NewTestLogger())
			require.NoError(t, mw(passThrough(&called))(c))

			assert.Equal(t, tt.wantNext, called)
			switch {
			case tt.wantText == "":
				assert.Empty(t, c.Sent)
				assert.Empty(t, c.Responses)
			case tt.callback:
				assert.Equal(t, tt.wantText, c.LastResponse().Text)
				assert.True(t, c.LastResponse().ShowAlert)
			default:
				assert.Equal(t, []string{tt.wantText}, c.Sent)
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		admin    bool
		err      error
		wantNext bool
	}{
		{name: "admin", admin: true, wantNext: true},
		{name: "not admin"},
		{name: "lookup fails", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("IsAdmin", mock.Anything, int64(3)).Return(tt.admin, tt.err)

			c := testutil.NewCommandContext(3, "")
			called := false
			mw := AdminMiddleware(service.NewAuthService(repo, "pw", ""), testutil.NewTestLogger())
			require.NoError(t, mw(passThrough(&called))(c))

			assert.Equal(t, tt.wantNext, called)
			if !tt.wantNext {
				assert.Len(t, c.Sent, 1)
			}
			repo.AssertExpectations(t)
		})
	}
}
