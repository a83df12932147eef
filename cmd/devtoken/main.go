// Command devtoken prints a signed identity token for local development,
// standing in for the external identity provider.
//
// Usage:
//
//	devtoken -user user_1 -org org_1 -first Ada -last Lovelace
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/heartmarshall/taskboard-backend/internal/auth"
	"github.com/heartmarshall/taskboard-backend/internal/config"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

func main() {
	userID := flag.String("user", "dev_user", "user ID (sub claim)")
	orgID := flag.String("org", "dev_org", "organization ID; empty issues a token without organization")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	picture := flag.String("picture", "", "profile image URL")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: AUTH_ACCESS_TOKEN_TTL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lifetime := cfg.Auth.AccessTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	id := domain.Identity{
		UserID:    *userID,
		OrgID:     *orgID,
		FirstName: *first,
		LastName:  *last,
	}
	if *picture != "" {
		id.ImageURL = picture
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, lifetime).GenerateToken(id)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
