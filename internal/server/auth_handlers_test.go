package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"blogmesh/internal/dto"
	"blogmesh/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpRequest(email string) dto.SignUpRequest {
	return dto.SignUpRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Contact:   5559876543,
		About:     "compilers",
		Email:     email,
		Password:  testPassword,
	}
}

func TestSignUp(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/signUp", signUpRequest("grace@example.com"), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotContains(t, strings.ToLower(string(body)), "password")

	user := decode[dto.User](t, body)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Nil(t, user.Address)

	// The new account can sign in right away.
	tokens := ts.signIn(t, "grace@example.com")
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "grace@example.com", models.RoleUser)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/signUp", signUpRequest("grace@example.com"), "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errResp := decodeError(t, body)
	assert.False(t, errResp.Success)
	assert.Equal(t, models.CodeValidation, errResp.Code)
	assert.Equal(t, "email already registered", errResp.Errors["email"])
}

func TestSignUp_InvalidFields(t *testing.T) {
	ts := newTestServer(t)
	req := signUpRequest("not-an-email")
	req.FirstName = ""

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/signUp", req, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errResp := decodeError(t, body)
	assert.Contains(t, errResp.Errors, "email")
	assert.Contains(t, errResp.Errors, "firstName")
}

func TestSignUp_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/signUp", "just a string", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", decodeError(t, body).Message)
}

func TestSignIn_BadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "ada@example.com", models.RoleUser)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "ada@example.com", "nope"},
		{"unknown email", "nobody@example.com", testPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/signIn",
				dto.SignInRequest{Email: tt.email, Password: tt.pass}, "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			errResp := decodeError(t, body)
			assert.Equal(t, models.CodeUnauthorized, errResp.Code)
			assert.Equal(t, "Invalid email or password", errResp.Message)
		})
	}
}

func TestRefresh(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "ada@example.com", models.RoleUser)
	tokens := ts.signIn(t, "ada@example.com")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/refresh",
		dto.RefreshTokenRequest{Token: tokens.RefreshToken}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	refreshed := decode[dto.JWTAuthenticationResponse](t, body)
	assert.NotEmpty(t, refreshed.Token)
	assert.Equal(t, tokens.RefreshToken, refreshed.RefreshToken)

	// The new access token authenticates.
	resp, _ = ts.do(t, http.MethodGet, "/api/v1/user/", nil, refreshed.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefresh_Rejected(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "ada@example.com", models.RoleUser)
	tokens := ts.signIn(t, "ada@example.com")

	tests := []struct {
		name  string
		token string
	}{
		{"access token", tokens.Token},
		{"garbage", "not.a.jwt"},
		{"tampered", tokens.RefreshToken + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/refresh",
				dto.RefreshTokenRequest{Token: tt.token}, "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))
			assert.Equal(t, models.CodeUnauthorized, decodeError(t, body).Code)
		})
	}
}

func TestLogout_RevokesTokens(t *testing.T) {
	ts := newTestServer(t)
	u := ts.createUser(t, "ada@example.com", models.RoleUser)
	tokens := ts.signIn(t, "ada@example.com")
	userPath := fmt.Sprintf("/api/v1/user/%d", u.ID)

	resp, _ := ts.do(t, http.MethodGet, userPath, nil, tokens.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/logout",
		dto.RefreshTokenRequest{Token: tokens.RefreshToken}, tokens.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, decode[models.APIResponse](t, body).Success)

	resp, body = ts.do(t, http.MethodGet, userPath, nil, tokens.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has been revoked", decodeError(t, body).Message)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/refresh",
		dto.RefreshTokenRequest{Token: tokens.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "ada@example.com", models.RoleUser)
	tokens := ts.signIn(t, "ada@example.com")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + tokens.RefreshToken, http.StatusUnauthorized},
		{"access token", "Bearer " + tokens.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/api/v1/user/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, _ := ts.send(t, req, "")
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
