package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/test"
	"erp.ac-paysages.fr/cmd/api/internal/dtos"
	"erp.ac-paysages.fr/internal/models"
)

func doSignIn(t *testing.T, signInDto dtos.SignInDto) *http.Response {
	t.Helper()

	body, err := json.Marshal(signInDto)
	require.NoError(t, err)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/signin",
		bytes.NewReader(body),
	)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	testApp.Routes().ServeHTTP(rr, req)

	return rr.Result()
}

func TestHome(t *testing.T) {
	tReq := test.CreateRequestTester(
		testApp.Routes(),
		http.MethodGet,
		"/",
	)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestSignInHandler(t *testing.T) {
	rs := doSignIn(t, dtos.SignInDto{
		Email:      "test@ac-paysages.fr",
		Password:   "password",
		RememberMe: true,
	})

	assert.Equal(t, http.StatusOK, rs.StatusCode)

	var user models.User
	err := httptools.ReadJSON(rs.Body, &user)
	require.NoError(t, err)
	assert.Equal(t, "4001e9cf-3fbe-4b09-863f-bd1654cfbf76", user.ID)

	cookieNames := []string{}
	for _, cookie := range rs.Cookies() {
		cookieNames = append(cookieNames, cookie.Name)
	}
	assert.Contains(t, cookieNames, "accessToken")
	assert.Contains(t, cookieNames, "refreshToken")
}

func TestSignInHandlerMissingFields(t *testing.T) {
	//nolint:exhaustruct //the point of this test
	rs := doSignIn(t, dtos.SignInDto{Email: "test@ac-paysages.fr"})

	assert.Equal(t, http.StatusUnprocessableEntity, rs.StatusCode)
}

func TestSignOutHandler(t *testing.T) {
	tReq := test.CreateRequestTester(
		testApp.Routes(),
		http.MethodGet,
		"/api/auth/signout",
	)

	tReq.AddCookie(&accessToken)
	tReq.AddCookie(&refreshToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusNoContent, rs.StatusCode)
}

func TestSignOutHandlerNoToken(t *testing.T) {
	tReq := test.CreateRequestTester(
		testApp.Routes(),
		http.MethodGet,
		"/api/auth/signout",
	)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusUnauthorized, rs.StatusCode)
}
