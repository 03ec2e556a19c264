// Command issue-token signs an identity token for local testing against a
// service started with the same AUTH_* environment.
package main

import (
	"flag"
	"fmt"
	"os"

	"tawseel/internal/auth"
	"tawseel/internal/config"
	"tawseel/internal/domain"
)

func main() {
	userID := flag.String("user", "", "User ID the token is bound to")
	role := flag.String("role", string(domain.RolePassenger), "Role (passenger|driver)")
	ttl := flag.Duration("ttl", 0, "Token lifetime (defaults to AUTH_TOKEN_TTL)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "issue-token: -user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, lifetime).
		Issue(auth.Identity{UserID: *userID, Role: domain.Role(*role)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "user=%s role=%s ttl=%s\n", *userID, *role, lifetime)
	fmt.Println(token)
}
