package main

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/pkg/auth"
)

type tokenCmd struct {
	User   string        `required:"" help:"User id placed in the subject claim."`
	Role   string        `required:"" enum:"admin,blogger,writer,vocalist" help:"Studio role."`
	Name   string        `help:"Display name."`
	Email  string        `help:"Email address."`
	Locale string        `default:"en" help:"Preferred locale."`
	TTL    time.Duration `help:"Token lifetime (defaults to STUDIO_JWT_EXPIRATION)."`
	Secret string        `env:"STUDIO_JWT_SECRET" help:"Signing secret."`
}

func (cmd *tokenCmd) Run(_ context.Context, e *env) error {
	role, err := studio.ParseRole(cmd.Role)
	if err != nil {
		return err
	}
	secret, issuer, ttl := cmd.Secret, "", cmd.TTL
	if e.cfg != nil {
		if secret == "" {
			secret = e.cfg.Auth.Secret
		}
		issuer = e.cfg.Auth.Issuer
		if ttl <= 0 {
			ttl = e.cfg.Auth.Expiration
		}
	}
	signer, err := auth.NewSigner(secret, issuer, ttl)
	if err != nil {
		return err
	}
	token, err := signer.Issue(auth.Identity{
		UserID: cmd.User,
		Name:   cmd.Name,
		Email:  cmd.Email,
		Role:   string(role),
		Locale: cmd.Locale,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, token)
	return err
}
