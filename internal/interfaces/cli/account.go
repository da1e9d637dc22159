// internal/interfaces/cli/account.go
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
)

func (a *App) login(ctx context.Context, fs *flag.FlagSet, args []string) error {
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	profile, err := a.sessions.Login(ctx, *email, *password)
	var persistErr *apperrors.PersistenceError
	if apperrors.As(err, &persistErr) && profile != nil {
		fmt.Fprintf(a.out, "Logged in as %s, but the session could not be saved: %v\n", profile.DisplayName(), persistErr)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", profile.DisplayName(), profile.Email)
	return nil
}

func (a *App) logout(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) whoami(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	current := a.sessions.Current()
	if !current.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	if profile := a.sessions.Profile(); profile != nil {
		fmt.Fprintf(a.out, "%s <%s> (id %s)\n", profile.DisplayName(), profile.Email, profile.ID)
		return nil
	}
	fmt.Fprintf(a.out, "User %s\n", current.UserID)
	return nil
}

func (a *App) signup(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var req api.SignupRequest
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	created, err := a.sessions.Signup(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s. Log in with `clothify login`.\n", created.Email)
	return nil
}

func (a *App) forgotPassword(ctx context.Context, fs *flag.FlagSet, args []string) error {
	email := fs.String("email", "", "account email")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	message, err := a.sessions.RequestPasswordReset(ctx, *email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, message)
	return nil
}

func (a *App) resetPassword(ctx context.Context, fs *flag.FlagSet, args []string) error {
	token := fs.String("token", "", "token from the reset email")
	password := fs.String("password", "", "new password")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	if err := a.sessions.ResetPassword(ctx, *token, *password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated. Log in with your new password.")
	return nil
}

func (a *App) updateProfile(ctx context.Context, fs *flag.FlagSet, args []string) error {
	fs.String("first", "", "first name")
	fs.String("last", "", "last name")
	fs.String("phone", "", "phone number")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	// Only flags given on the command line become part of the update
	var req api.UpdateUserRequest
	fs.Visit(func(f *flag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "first":
			req.FirstName = &value
		case "last":
			req.LastName = &value
		case "phone":
			req.Phone = &value
		}
	})

	updated, err := a.sessions.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s\n", updated.DisplayName())
	return nil
}
