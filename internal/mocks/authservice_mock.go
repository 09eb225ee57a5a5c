package mocks

import (
	"context"
	"net/http"

	"erp.ac-paysages.fr/internal/auth"
	"erp.ac-paysages.fr/internal/constants"
	"erp.ac-paysages.fr/internal/models"
)

func NewMockedAuthService(userID string) auth.Service {
	return &MockedAuthService{
		userID: userID,
	}
}

type MockedAuthService struct {
	userID string
}

func (m *MockedAuthService) Access(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := models.User{
			ID:    m.userID,
			Email: "test@ac-paysages.fr",
		}

		ctx := context.WithValue(r.Context(), constants.UserContextKey, user)
		r = r.WithContext(ctx)

		next(w, r)
	}
}

func (m *MockedAuthService) GetAllUsers() ([]models.User, error) {
	return []models.User{
		{
			ID:    m.userID,
			Email: "test@ac-paysages.fr",
		},
	}, nil
}

func (m *MockedAuthService) SignOut(
	_ string,
	_ bool,
) (*http.Cookie, *http.Cookie, error) {
	return nil, nil, nil
}
