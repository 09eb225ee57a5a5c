package services

import (
	"github.com/supabase-community/gotrue-go"
	cfg "erp.ac-paysages.fr/internal/config"
)

type Services struct {
	Auth *AuthService
}

func New(
	cfg cfg.Config,
	supabaseClient gotrue.Client,
) *Services {
	return &Services{
		Auth: &AuthService{
			supabaseUserID: cfg.SupabaseUserID,
			client:         supabaseClient,
		},
	}
}
