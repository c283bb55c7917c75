package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-frontdesk/internal/user"
)

func newHandlerFixture(users UserStore) (*Handler, *fakeSessionStore) {
	store := newFakeSessionStore()
	return NewHandler(newTestService(users, store), false), store
}

func findSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockUserStore)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "successful signup",
			body: `{"name":"Amina","email":"amina@clinic.org","password":"longenough","role":"VOLUNTEER"}`,
			setupMock: func(m *MockUserStore) {
				m.On("Create", mock.Anything, "Amina", "amina@clinic.org", mock.AnythingOfType("string"), user.RoleVolunteer).
					Return(&user.User{ID: uuid.New(), Name: "Amina", Email: "amina@clinic.org", Role: user.RoleVolunteer}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed body",
			body:           `{"name":`,
			setupMock:      func(m *MockUserStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name:           "unknown role",
			body:           `{"name":"Amina","email":"amina@clinic.org","password":"longenough","role":"SUPERUSER"}`,
			setupMock:      func(m *MockUserStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_ROLE",
		},
		{
			name:           "password too short",
			body:           `{"name":"Amina","email":"amina@clinic.org","password":"short","role":"VOLUNTEER"}`,
			setupMock:      func(m *MockUserStore) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "PASSWORD_TOO_SHORT",
		},
		{
			name: "duplicate email",
			body: `{"name":"Amina","email":"amina@clinic.org","password":"longenough","role":"VOLUNTEER"}`,
			setupMock: func(m *MockUserStore) {
				m.On("Create", mock.Anything, "Amina", "amina@clinic.org", mock.AnythingOfType("string"), user.RoleVolunteer).
					Return(nil, user.ErrDuplicateEmail)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "EMAIL_ALREADY_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserStore)
			tt.setupMock(mockUsers)
			h, _ := newHandlerFixture(mockUsers)

			r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Signup(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeErrorCode(t, w))
			}
			// signup never hands out a session
			assert.Nil(t, findSessionCookie(t, w))

			mockUsers.AssertExpectations(t)
		})
	}
}

func TestHandler_Login_SetsCookie(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockUsers.On("GetByEmail", mock.Anything, "amina@clinic.org").Return(&user.User{
		ID:           uuid.New(),
		Name:         "Amina",
		Email:        "amina@clinic.org",
		PasswordHash: mustHash(t, "longenough"),
		Role:         user.RoleVolunteer,
		Verified:     true,
	}, nil)

	h, store := newHandlerFixture(mockUsers)

	body := `{"email":"amina@clinic.org","password":"longenough"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Login(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	cookie := findSessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// the cookie token matches the persisted session
	_, ok := store.sessions[cookie.Value]
	assert.True(t, ok)

	var resp UserResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "amina@clinic.org", resp.Email)

	mockUsers.AssertExpectations(t)
}

func TestHandler_Login_ErrorShapes(t *testing.T) {
	pendingUser := &user.User{
		Email:        "bilal@clinic.org",
		PasswordHash: mustHash(t, "longenough"),
		Verified:     false,
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockUserStore)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "unknown email",
			body: `{"email":"ghost@clinic.org","password":"longenough"}`,
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", mock.Anything, "ghost@clinic.org").Return(nil, user.ErrNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "INVALID_CREDENTIALS",
		},
		{
			name: "pending verification",
			body: `{"email":"bilal@clinic.org","password":"longenough"}`,
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", mock.Anything, "bilal@clinic.org").Return(pendingUser, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "PENDING_VERIFICATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserStore)
			tt.setupMock(mockUsers)
			h, _ := newHandlerFixture(mockUsers)

			r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Login(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeErrorCode(t, w))
			assert.Nil(t, findSessionCookie(t, w))

			mockUsers.AssertExpectations(t)
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	h, store := newHandlerFixture(new(MockUserStore))
	store.sessions["tok"] = &Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}

	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})

	w := httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.sessions, "session row revoked")

	cookie := findSessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestHandler_Logout_WithoutSession(t *testing.T) {
	h, _ := newHandlerFixture(new(MockUserStore))

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	// always 200, and the cookie is cleared anyway
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findSessionCookie(t, w))
}

func TestHandler_Me(t *testing.T) {
	h, _ := newHandlerFixture(new(MockUserStore))

	u := &user.User{ID: uuid.New(), Name: "Amina", Email: "amina@clinic.org", Role: user.RoleAdmin, Verified: true}
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r = r.WithContext(context.WithValue(r.Context(), CurrentUserContextKey, u))

	w := httptest.NewRecorder()
	h.Me(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp UserResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, u.ID, resp.ID)
	assert.Equal(t, user.RoleAdmin, resp.Role)
}

func TestHandler_Me_Unauthenticated(t *testing.T) {
	h, _ := newHandlerFixture(new(MockUserStore))

	w := httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_AUTH", decodeErrorCode(t, w))
}
