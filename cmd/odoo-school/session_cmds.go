package main

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/target/odoo-school-client/internal/bootstrap"
	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
	apperrors "github.com/target/odoo-school-client/internal/errors"
	"github.com/target/odoo-school-client/internal/odoo"
	"github.com/target/odoo-school-client/internal/service"
)

// passwordEnv lets scripts avoid passing the password on the command line.
const passwordEnv = "ODOO_PASSWORD"

type loginOptions struct {
	Username string
	Password string
	Query    string
}

func parseLoginFlags(cmdCtx *commandContext, args []string) (loginOptions, error) {
	var opts loginOptions
	fs := newFlagSet(cmdCtx, "login")
	fs.StringVar(&opts.Username, "u", "", "Odoo login")
	fs.StringVar(&opts.Password, "p", "", "password (defaults to $"+passwordEnv+")")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the output")
	if err := parseFlags(fs, args); err != nil {
		return opts, err
	}
	if opts.Password == "" {
		opts.Password = os.Getenv(passwordEnv)
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(cmdCtx, args)
	if err != nil {
		return err
	}

	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		res, loginErr := stack.Auth.Login(cmdCtx.Ctx, opts.Username, opts.Password)
		if loginErr != nil {
			if apperrors.IsNoRole(loginErr) {
				return apperrors.Wrap(loginErr, apperrors.ErrCodeNoRole,
					"El usuario no tiene un rol definido en el colegio")
			}
			return loginErr
		}
		return printResult(cmdCtx.Out, sessionView(res.Session), opts.Query)
	})
}

func runLogout(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "logout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		stack.Auth.Logout(cmdCtx.Ctx)
		return nil
	})
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "whoami")
	query := fs.String("query", "", "JMESPath expression applied to the output")
	local := fs.Bool("local", false, "print the stored session without contacting the server")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		if *local {
			sess, ok := stack.Auth.CurrentUser(cmdCtx.Ctx)
			if !ok {
				return apperrors.New(apperrors.ErrCodeNoSession, odoo.MsgNoSession)
			}
			return printResult(cmdCtx.Out, sessionView(*sess), *query)
		}

		sess, err := stack.Auth.VerifySession(cmdCtx.Ctx)
		if err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				return apperrors.Wrap(err, apperrors.ErrCodeNoSession, odoo.MsgNoSession)
			}
			return err
		}
		return printResult(cmdCtx.Out, sessionView(*sess), *query)
	})
}

func runHealth(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "health")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		ok := stack.Auth.CheckServerHealth(cmdCtx.Ctx)
		if err := printResult(cmdCtx.Out, map[string]any{
			"host":      cmdCtx.Config.Odoo.Host,
			"reachable": ok,
		}, ""); err != nil {
			return err
		}
		if !ok {
			return apperrors.New(apperrors.ErrCodeOffline, service.MsgOffline)
		}
		return nil
	})
}

func runDatabases(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "databases")
	query := fs.String("query", "", "JMESPath expression applied to the output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return withStack(cmdCtx, func(stack *bootstrap.AuthStack) error {
		dbs, err := stack.Client.ListDatabases(cmdCtx.Ctx)
		if err != nil {
			return err
		}
		return printResult(cmdCtx.Out, dbs, *query)
	})
}

// sessionView is the printable form of a session; the token is masked.
func sessionView(s domainauth.UserSession) map[string]any {
	return map[string]any{
		"id":         s.ID,
		"username":   s.Username,
		"full_name":  s.FullName,
		"email":      s.Email,
		"role":       s.Role,
		"odoo_role":  s.OdooRole,
		"last_login": s.LastLogin,
		"token":      maskToken(s.Token),
		"odoo": map[string]any{
			"uid":        s.Odoo.UID,
			"partner_id": s.Odoo.PartnerID,
			"company_id": s.Odoo.CompanyID,
			"context":    s.Odoo.Context,
		},
	}
}

func maskToken(token string) string {
	if len(token) <= 6 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}

func newFlagSet(cmdCtx *commandContext, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cmdCtx.Err)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		// flag has already reported the problem and printed defaults.
		return errUsage
	}
	if fs.NArg() > 0 {
		_ = writef(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}
