package auth

import (
	"net/http"

	"erp.ac-paysages.fr/internal/models"
)

type Service interface {
	Access(next http.HandlerFunc) http.HandlerFunc
	GetAllUsers() ([]models.User, error)
	SignOut(accessToken string, secure bool) (*http.Cookie, *http.Cookie, error)
}
