package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_backend/internal/feature/account/domain"
	"account_backend/internal/feature/account/domain/entity"
	"account_backend/internal/feature/account/usecase"
	jwtmw "account_backend/internal/platform/jwt"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAccountUsecase is a function-field mock of AccountUsecase.
type mockAccountUsecase struct {
	RegisterFunc           func(ctx context.Context, in usecase.RegisterInput) domain.Outcome
	LoginFunc              func(ctx context.Context, loginID, password string) (jwtmw.Token, domain.Outcome)
	SignoutFunc            func(ctx context.Context, loginID, password string) domain.Outcome
	ForgotIDFunc           func(ctx context.Context, email string) (string, domain.Outcome)
	ForgotPasswordFunc     func(ctx context.Context, loginID, newPassword string) domain.Outcome
	CheckDuplicateFunc     func(ctx context.Context, attr entity.Attribute, value string) domain.Outcome
	GetProfileFunc         func(ctx context.Context, token string) (usecase.Profile, domain.Outcome)
	GetProfileImageFunc    func(ctx context.Context, token string) (usecase.ProfileImage, domain.Outcome)
	UpdateProfileImageFunc func(ctx context.Context, token string, accountID uuid.UUID, data []byte) (string, domain.Outcome)
}

func (m *mockAccountUsecase) Register(ctx context.Context, in usecase.RegisterInput) domain.Outcome {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return domain.OK()
}

func (m *mockAccountUsecase) Login(ctx context.Context, loginID, password string) (jwtmw.Token, domain.Outcome) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, loginID, password)
	}
	return jwtmw.Token{}, domain.Fail(domain.StatusAuthenticationFailed, "invalid ID or password")
}

func (m *mockAccountUsecase) Signout(ctx context.Context, loginID, password string) domain.Outcome {
	if m.SignoutFunc != nil {
		return m.SignoutFunc(ctx, loginID, password)
	}
	return domain.OK()
}

func (m *mockAccountUsecase) ForgotID(ctx context.Context, email string) (string, domain.Outcome) {
	if m.ForgotIDFunc != nil {
		return m.ForgotIDFunc(ctx, email)
	}
	return "", domain.Fail(domain.StatusNotFound, "not found")
}

func (m *mockAccountUsecase) ForgotPassword(ctx context.Context, loginID, newPassword string) domain.Outcome {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, loginID, newPassword)
	}
	return domain.OK()
}

func (m *mockAccountUsecase) CheckDuplicate(ctx context.Context, attr entity.Attribute, value string) domain.Outcome {
	if m.CheckDuplicateFunc != nil {
		return m.CheckDuplicateFunc(ctx, attr, value)
	}
	return domain.OK()
}

func (m *mockAccountUsecase) GetProfile(ctx context.Context, token string) (usecase.Profile, domain.Outcome) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, token)
	}
	return usecase.Profile{}, domain.Fail(domain.StatusNotFound, "account not found")
}

func (m *mockAccountUsecase) GetProfileImage(ctx context.Context, token string) (usecase.ProfileImage, domain.Outcome) {
	if m.GetProfileImageFunc != nil {
		return m.GetProfileImageFunc(ctx, token)
	}
	return usecase.ProfileImage{}, domain.Fail(domain.StatusNotFound, "account not found")
}

func (m *mockAccountUsecase) UpdateProfileImage(ctx context.Context, token string, accountID uuid.UUID, data []byte) (string, domain.Outcome) {
	if m.UpdateProfileImageFunc != nil {
		return m.UpdateProfileImageFunc(ctx, token, accountID, data)
	}
	return "default_user.png", domain.OK()
}

func newTestRouter(uc AccountUsecase, accountID uuid.UUID) *gin.Engine {
	h := NewAccountHandler(uc)
	r := gin.New()
	g := r.Group("/account")
	g.PUT("/register", h.Register)
	g.POST("/login", h.Login)
	g.DELETE("/signout", h.Signout)
	g.POST("/forgot/id", h.ForgotID)
	g.POST("/forgot/password", h.ForgotPassword)
	g.POST("/duplicate/:parameter", h.CheckDuplicate)

	authed := g.Group("", func(c *gin.Context) {
		c.Set(jwtmw.ContextAccountID, accountID)
		c.Next()
	})
	authed.GET("/profile", h.GetProfile)
	authed.GET("/profile/image", h.GetProfileImage)
	authed.POST("/profile/image/update", h.UpdateProfileImage)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := map[domain.StatusCode]int{
		domain.StatusSuccess:              200,
		domain.StatusAuthenticationFailed: 401,
		domain.StatusForbidden:            403,
		domain.StatusNotFound:             404,
		domain.StatusSessionExpired:       408,
		domain.StatusConflict:             409,
		domain.StatusInvalidInput:         422,
		domain.StatusInternalError:        500,
		domain.StatusCode(99):             500,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), code.String())
	}
}

func TestAccountHandler_Register(t *testing.T) {
	valid := map[string]any{
		"user_id": "u1", "password": "Passw0rd!", "nickname": "nick1",
		"email": "u1@x.com", "phone": "010-1-1", "u_uuid": uuid.NewString(), "s_id": "s1",
	}

	tests := []struct {
		name       string
		body       map[string]any
		outcome    domain.Outcome
		wantStatus int
		wantCalled bool
		wantDetail string
	}{
		{name: "success", body: valid, outcome: domain.OK(), wantStatus: http.StatusOK, wantCalled: true},
		{
			name:       "conflict",
			body:       valid,
			outcome:    domain.Fail(domain.StatusConflict, "u1 ID already exists"),
			wantStatus: http.StatusConflict,
			wantCalled: true,
			wantDetail: "u1 ID already exists",
		},
		{
			name:       "unknown university",
			body:       valid,
			outcome:    domain.Fail(domain.StatusNotFound, "university not found"),
			wantStatus: http.StatusNotFound,
			wantCalled: true,
			wantDetail: "university not found",
		},
		{name: "invalid email", body: with(valid, "email", "nope"), wantStatus: http.StatusUnprocessableEntity},
		{name: "login id too long", body: with(valid, "user_id", strings.Repeat("a", 16)), wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed university", body: with(valid, "u_uuid", "xyz"), wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			uc := &mockAccountUsecase{RegisterFunc: func(_ context.Context, in usecase.RegisterInput) domain.Outcome {
				called = true
				assert.Equal(t, "u1", in.LoginID)
				assert.Equal(t, "s1", in.SchoolID)
				return tt.outcome
			}}
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPut, "/account/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			newTestRouter(uc, uuid.Nil).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			resp := decode(t, w)
			assert.EqualValues(t, tt.wantStatus, resp["status_code"])
			assert.NotEmpty(t, resp["message"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, resp["detail"])
			}
			if tt.wantStatus == http.StatusOK {
				assert.NotContains(t, resp, "detail")
			}
		})
	}
}

func with(m map[string]any, k string, v any) map[string]any {
	out := make(map[string]any, len(m))
	for key, val := range m {
		out[key] = val
	}
	out[k] = v
	return out
}

func TestAccountHandler_Login(t *testing.T) {
	expires := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	uc := &mockAccountUsecase{LoginFunc: func(_ context.Context, loginID, password string) (jwtmw.Token, domain.Outcome) {
		if loginID == "u1" && password == "Passw0rd!" {
			return jwtmw.Token{AccessToken: "signed", TokenType: jwtmw.TokenType, ExpiresAt: expires}, domain.OK()
		}
		return jwtmw.Token{}, domain.Fail(domain.StatusAuthenticationFailed, "invalid ID or password")
	}}
	r := newTestRouter(uc, uuid.Nil)

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/account/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		w := post(url.Values{"username": {"u1"}, "password": {"Passw0rd!"}})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "signed", resp["token"])
		assert.Equal(t, "bearer", resp["token_type"])
		assert.Equal(t, "login succeeded", resp["message"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := post(url.Values{"username": {"u1"}, "password": {"nope"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "ID or password does not match", resp["message"])
		assert.NotContains(t, resp, "token")
	})

	t.Run("missing field", func(t *testing.T) {
		w := post(url.Values{"username": {"u1"}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAccountHandler_Signout(t *testing.T) {
	var gotID, gotPassword string
	uc := &mockAccountUsecase{SignoutFunc: func(_ context.Context, loginID, password string) domain.Outcome {
		gotID, gotPassword = loginID, password
		return domain.OK()
	}}
	r := newTestRouter(uc, uuid.Nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/account/signout?id=u1&password=Passw0rd!", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotID)
	assert.Equal(t, "Passw0rd!", gotPassword)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/account/signout?id=u1", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAccountHandler_ForgotID(t *testing.T) {
	uc := &mockAccountUsecase{ForgotIDFunc: func(_ context.Context, email string) (string, domain.Outcome) {
		if email == "u1@x.com" {
			return "u1", domain.OK()
		}
		return "", domain.Fail(domain.StatusNotFound, "no account is registered with this email")
	}}
	r := newTestRouter(uc, uuid.Nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/account/forgot/id?email=u1@x.com", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode(t, w)["user_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/account/forgot/id?email=other@x.com", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, decode(t, w), "user_id")
}

func TestAccountHandler_ForgotPassword(t *testing.T) {
	uc := &mockAccountUsecase{ForgotPasswordFunc: func(_ context.Context, loginID, newPassword string) domain.Outcome {
		assert.Equal(t, "u1", loginID)
		assert.Equal(t, "N3wPassword", newPassword)
		return domain.OK()
	}}
	r := newTestRouter(uc, uuid.Nil)

	req := httptest.NewRequest(http.MethodPost, "/account/forgot/password",
		strings.NewReader(`{"user_id":"u1","password":"N3wPassword"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "password changed", decode(t, w)["message"])
}

func TestAccountHandler_CheckDuplicate(t *testing.T) {
	uc := &mockAccountUsecase{CheckDuplicateFunc: func(_ context.Context, attr entity.Attribute, value string) domain.Outcome {
		if attr == entity.AttributeLoginID && value == "u1" {
			return domain.Fail(domain.StatusConflict, "u1 ID already exists")
		}
		return domain.OK()
	}}
	r := newTestRouter(uc, uuid.Nil)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantMessage string
	}{
		{"taken id", "/account/duplicate/id?data=u1", http.StatusConflict, "the ID is already in use"},
		{"free id", "/account/duplicate/id?data=u2", http.StatusOK, "the ID is available"},
		{"free phone", "/account/duplicate/phone?data=010", http.StatusOK, "the phone number is available"},
		{"unknown parameter", "/account/duplicate/school?data=x", http.StatusUnprocessableEntity, "invalid path parameter"},
		{"missing data", "/account/duplicate/email", http.StatusUnprocessableEntity, "invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decode(t, w)["message"])
		})
	}
}

func TestAccountHandler_GetProfile(t *testing.T) {
	id := uuid.New()
	uni := uuid.New()
	login := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	uc := &mockAccountUsecase{GetProfileFunc: func(_ context.Context, token string) (usecase.Profile, domain.Outcome) {
		if token != "good" {
			return usecase.Profile{}, domain.Fail(domain.StatusSessionExpired, "session expired")
		}
		return usecase.Profile{
			ID: id, LoginID: "u1", Nickname: "nick1", Email: "u1@x.com", Phone: "010-1-1",
			SchoolID: "s1", ProfileImage: "default_user.png", UniversityID: &uni,
			SignupAt: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), LastLoginAt: &login,
		}, domain.OK()
	}}
	r := newTestRouter(uc, id)

	req := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	info, ok := decode(t, w)["account_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id.String(), info["a_uuid"])
	assert.Equal(t, "u1", info["id"])
	assert.Equal(t, uni.String(), info["u_uuid"])
	assert.Equal(t, "2024-06-01 09:00:00", info["login_date"])
	assert.Equal(t, "2024-05-15 00:00:00", info["signup_date"])
	assert.NotContains(t, info, "password_hash")

	req = httptest.NewRequest(http.MethodGet, "/account/profile?access_token=stale", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestAccountHandler_GetProfileImage(t *testing.T) {
	uc := &mockAccountUsecase{GetProfileImageFunc: func(context.Context, string) (usecase.ProfileImage, domain.Outcome) {
		return usecase.ProfileImage{Reference: "a.png", Data: pngBytes}, domain.OK()
	}}
	r := newTestRouter(uc, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/account/profile/image", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())
}

func TestAccountHandler_UpdateProfileImage(t *testing.T) {
	self := uuid.New()

	multipartBody := func(t *testing.T, content []byte) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	t.Run("stores uploaded image for the token owner", func(t *testing.T) {
		var gotID uuid.UUID
		var gotData []byte
		uc := &mockAccountUsecase{UpdateProfileImageFunc: func(_ context.Context, token string, accountID uuid.UUID, data []byte) (string, domain.Outcome) {
			assert.Equal(t, "good", token)
			gotID, gotData = accountID, data
			return "new.png", domain.OK()
		}}
		body, ct := multipartBody(t, pngBytes)
		req := httptest.NewRequest(http.MethodPost, "/account/profile/image/update", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()

		newTestRouter(uc, self).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, self, gotID)
		assert.Equal(t, pngBytes, gotData)
		assert.Equal(t, "new.png", decode(t, w)["profile"])
	})

	t.Run("no file clears the image", func(t *testing.T) {
		called := false
		uc := &mockAccountUsecase{UpdateProfileImageFunc: func(_ context.Context, _ string, _ uuid.UUID, data []byte) (string, domain.Outcome) {
			called = true
			assert.Nil(t, data)
			return "default_user.png", domain.OK()
		}}
		req := httptest.NewRequest(http.MethodPost, "/account/profile/image/update", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()

		newTestRouter(uc, self).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("other account is forbidden", func(t *testing.T) {
		other := uuid.New()
		uc := &mockAccountUsecase{UpdateProfileImageFunc: func(_ context.Context, _ string, accountID uuid.UUID, _ []byte) (string, domain.Outcome) {
			assert.Equal(t, other, accountID)
			return "", domain.Fail(domain.StatusForbidden, "token does not belong to this account")
		}}
		req := httptest.NewRequest(http.MethodPost, "/account/profile/image/update?account_id="+other.String(), nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()

		newTestRouter(uc, self).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-image upload is rejected", func(t *testing.T) {
		called := false
		uc := &mockAccountUsecase{UpdateProfileImageFunc: func(context.Context, string, uuid.UUID, []byte) (string, domain.Outcome) {
			called = true
			return "", domain.OK()
		}}
		body, ct := multipartBody(t, []byte("just some text"))
		req := httptest.NewRequest(http.MethodPost, "/account/profile/image/update", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()

		newTestRouter(uc, self).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, called)
	})
	t.Run("malformed account id is rejected", func(t *testing.T) {
		for _, id := range []string{"not-a-uuid", "123", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
			called := false
			uc := &mockAccountUsecase{UpdateProfileImageFunc: func(context.Context, string, uuid.UUID, []byte) (string, domain.Outcome) {
				called = true
				return "", domain.OK()
			}}
			req := httptest.NewRequest(http.MethodPost, "/account/profile/image/update?account_id="+id, nil)
			req.Header.Set("Authorization", "Bearer good")
			w := httptest.NewRecorder()

			require.NotPanics(t, func() { newTestRouter(uc, self).ServeHTTP(w, req) })

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, id)
			assert.Contains(t, decode(t, w)["detail"], "account_id", id)
			assert.False(t, called, id)
		}
	})
}
