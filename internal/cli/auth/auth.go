package auth

import (
	"fmt"
	"strings"

	"github.com/julianstephens/focusflow/internal/cli"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
)

type AuthCmd struct {
	Login  LoginCmd  `cmd:"" help:"Sign in as a user."`
	Logout LogoutCmd `cmd:"" help:"Sign out the current user."`
	Whoami WhoamiCmd `cmd:"" help:"Show the signed-in user." default:"1"`
}

type LoginCmd struct {
	User string `arg:"" help:"User id to sign in as."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	user := strings.TrimSpace(c.User)
	if user == "" {
		return fmt.Errorf("%w: user id cannot be empty", apperrors.ErrValidation)
	}
	if err := ctx.Identity.SignIn(user); err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}
	fmt.Printf("✓ Signed in as %s\n", user)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Identity.SignOut(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	fmt.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, ok := ctx.Identity.Current()
	if !ok {
		fmt.Println("Not signed in. Use 'focusflow auth login <user>'.")
		return nil
	}
	fmt.Println(user)
	return nil
}
