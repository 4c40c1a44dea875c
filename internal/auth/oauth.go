package auth

import (
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/petermazzocco/renovation-portal/internal/config"
	"github.com/petermazzocco/renovation-portal/internal/utils"
)

// SetupOAuth registers the Google provider and points gothic at store.
// It reports whether any provider was enabled.
func SetupOAuth(cfg *config.Config, store sessions.Store) bool {
	gothic.Store = store
	if !cfg.GoogleEnabled() {
		utils.Logger.Info("Google sign-in disabled: GOOGLE_KEY or GOOGLE_SECRET not set")
		return false
	}
	goth.UseProviders(google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.GoogleCallbackURL, "email", "profile"))
	return true
}
