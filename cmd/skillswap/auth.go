package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/skillswap/skillswap/internal/identity"
	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

// prompter reads answers from a terminal or a pipe.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// secret reads a line without echo. Nil falls back to a plain line read.
	secret func() (string, error)
}

func newPrompter(in *os.File, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		p.secret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return string(b), err
		}
	}
	return p
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) askSecret(label string) (string, error) {
	if p.secret == nil {
		return p.ask(label)
	}
	fmt.Fprint(p.out, label)
	s, err := p.secret()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return s, nil
}

func validEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("%q is not an e-mail address", s)
	}
	return nil
}

func runLogin(ctx context.Context, c *client.Client, store identity.Store, p *prompter) (*domain.User, error) {
	email, err := p.ask("E-mail: ")
	if err != nil {
		return nil, err
	}
	if err := validEmail(email); err != nil {
		return nil, err
	}
	password, err := p.askSecret("Password: ")
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	me, err := c.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrInvalidCredentials) {
			return nil, client.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %s", client.Reason(err))
	}
	if err := store.Save(me); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Signed in as %s\n", me.DisplayName())
	return me, nil
}

func runRegister(ctx context.Context, c *client.Client, store identity.Store, p *prompter) (*domain.User, error) {
	name, err := p.ask("Name: ")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	email, err := p.ask("E-mail: ")
	if err != nil {
		return nil, err
	}
	if err := validEmail(email); err != nil {
		return nil, err
	}
	password, err := p.askSecret("Password: ")
	if err != nil {
		return nil, err
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	confirm, err := p.askSecret("Repeat password: ")
	if err != nil {
		return nil, err
	}
	if confirm != password {
		return nil, errors.New("passwords do not match")
	}

	me, err := c.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		if errors.Is(err, client.ErrEmailTaken) {
			return nil, fmt.Errorf("%s is already registered, try skillswap login", email)
		}
		return nil, fmt.Errorf("register failed: %s", client.Reason(err))
	}
	if err := store.Save(me); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Welcome to SkillSwap, %s\n", me.DisplayName())
	return me, nil
}

func runLogout(store identity.Store, out io.Writer) error {
	removed, err := store.Clear()
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runWhoami(store identity.Store, out io.Writer) error {
	me, err := store.Load()
	if errors.Is(err, identity.ErrNotLoggedIn) {
		fmt.Fprintln(out, "Not logged in. Run skillswap login.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s <%s>\n", me.DisplayName(), me.Email)
	if me.Role != "" {
		fmt.Fprintf(out, "role:   %s\n", strings.ToLower(me.Role))
	}
	if names := me.SkillNames(); len(names) > 0 {
		fmt.Fprintf(out, "skills: %s\n", strings.Join(names, ", "))
	}
	return nil
}
