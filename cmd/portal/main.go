package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/adislis/handspeak/internal/config"
	"github.com/adislis/handspeak/internal/portal"
	"github.com/adislis/handspeak/internal/store"
)

func main() {
	fmt.Println("Handspeak - ASL Translation Portal")

	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadPortal()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	var oauth *portal.GoogleOAuth
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauth = portal.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	} else {
		log.Println("Google OAuth not configured; sign-in with Google disabled")
	}

	if cfg.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", cfg.StaticDir)
	}

	srv := portal.New(portal.Config{
		Store:         st,
		SessionKey:    cfg.SessionKey,
		StaticDir:     cfg.StaticDir,
		OAuth:         oauth,
		SecureCookies: cfg.SecureCookies,
	})

	fmt.Printf("Starting portal on %s\n", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
