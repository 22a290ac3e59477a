package main

import (
	"fmt"
	"time"

	"github.com/lox/pokertable/internal/auth"
)

// HashTokenCmd prints the token_hash for a player block.
type HashTokenCmd struct {
	Token string `kong:"arg,help='Join token to hash'"`
}

func (c *HashTokenCmd) Run() error {
	hash, err := auth.HashToken(c.Token)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

// SignTokenCmd issues a join token for servers configured with jwt_secret.
type SignTokenCmd struct {
	PlayerID string        `kong:"arg,help='Player id (the sub claim)'"`
	Name     string        `kong:"help='Username shown at the table'"`
	Secret   string        `kong:"required,env='POKERTABLE_JWT_SECRET',help='Shared HS256 secret'"`
	Issuer   string        `kong:"help='Issuer claim'"`
	TTL      time.Duration `kong:"default='24h',help='Token lifetime'"`
}

func (c *SignTokenCmd) Run() error {
	token, err := auth.SignToken(c.Secret, c.Issuer, auth.Identity{PlayerID: c.PlayerID, Name: c.Name}, c.TTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
