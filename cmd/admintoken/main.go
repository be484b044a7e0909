// Command admintoken mints a bearer token for the /v1/admin endpoints.
//
//	admintoken -sub alice@example.com -ttl 24h
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/pictures-london/internal/config"
	"github.com/iliyamo/pictures-london/internal/utils"
)

func main() {
	sub := flag.String("sub", "", "operator identity recorded on triggered runs (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to ADMIN_TOKEN_TTL")
	flag.Parse()

	if *sub == "" {
		log.Fatal("-sub is required")
	}
	secret, lifetime := config.LoadAuth()
	if *ttl > 0 {
		lifetime = *ttl
	}

	tok, err := utils.NewAccessToken(secret, *sub, utils.RoleAdmin, lifetime)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok.Token)
	log.Printf("expires %s", tok.Exp.Format(time.RFC3339))
}
