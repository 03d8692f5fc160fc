package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

// admintoken prints an admin bearer token for POST /questions and
// DELETE /questions/{id}, signed with JWT_SECRET.
func main() {
	var (
		subject = flag.String("subject", "admin", "Token subject (who the token is for)")
		ttl     = flag.Duration("ttl", 0, "Token lifetime; defaults to JWT_TTL")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	sec, err := config.LoadSecurity()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid security configuration")
	}
	if sec.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is empty; the API accepts writes without a token")
	}

	lifetime := sec.JWTTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	manager, err := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(sec.JWTSecret),
		TTL:    lifetime,
		Issuer: sec.JWTIssuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token manager")
	}

	token, err := manager.Generate(*subject, jwt.RoleAdmin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	log.Info().
		Str("subject", *subject).
		Time("expires_at", time.Now().Add(lifetime)).
		Msg("admin token issued")
	fmt.Println(token)
}
