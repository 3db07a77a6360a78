// Package pages bundles locators, composed actions and read helpers for the
// logical surfaces of the target site. A page object borrows its surface,
// never owns it, and never stores resolved element handles: every action
// re-locates through its locator fields.
package pages

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"uiprobe/internal/application/port/output"
	"uiprobe/internal/application/service"
	"uiprobe/internal/domain/entity"
)

// Credentials are plain values handed to composed actions.
type Credentials struct {
	Username string
	Password string
}

// FreshCredentials generates a unique identity for registration flows, so
// repeated runs cannot collide on the target's user store.
func FreshCredentials() Credentials {
	return Credentials{
		Username: "user-" + uuid.NewString()[:8],
		Password: "pw-" + uuid.NewString()[:12],
	}
}

// AuthPage covers the login, registration and secure surfaces.
type AuthPage struct {
	surface output.SurfacePort

	username       entity.Locator
	password       entity.Locator
	confirm        entity.Locator
	loginButton    entity.Locator
	registerButton entity.Locator
	logoutLink     entity.Locator
	flash          entity.Locator
	secureTitle    entity.Locator
}

func NewAuthPage(s output.SurfacePort) *AuthPage {
	return &AuthPage{
		surface:        s,
		username:       entity.Css("#username"),
		password:       entity.Css("#password"),
		confirm:        entity.Css("#confirm"),
		loginButton:    entity.Css("#login-button"),
		registerButton: entity.Css("#register-button"),
		logoutLink:     entity.Css("#logout"),
		flash:          entity.Css("#flash"),
		secureTitle:    entity.Css("#secure-title"),
	}
}

func (p *AuthPage) OpenLogin(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/login")
}

func (p *AuthPage) OpenRegister(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/register")
}

// OpenSecure navigates straight at the protected surface. Access control is
// the target's business; callers assert on where they ended up.
func (p *AuthPage) OpenSecure(ctx context.Context) error {
	return p.surface.Navigate(ctx, "/secure")
}

// Register fills the registration form and submits, joining the resulting
// navigation. The submit is not retried on partial failure: a second attempt
// would hit the taken-username path.
func (p *AuthPage) Register(ctx context.Context, creds Credentials) error {
	if err := p.surface.Fill(ctx, p.username, creds.Username); err != nil {
		return err
	}
	if err := p.surface.Fill(ctx, p.password, creds.Password); err != nil {
		return err
	}
	if err := p.surface.Fill(ctx, p.confirm, creds.Password); err != nil {
		return err
	}
	_, err := service.Expect(ctx, p.surface, entity.EventNavigation, func() error {
		return p.surface.Click(ctx, p.registerButton)
	})
	return err
}

// Login submits credentials and joins the navigation that follows.
func (p *AuthPage) Login(ctx context.Context, creds Credentials) error {
	if err := p.surface.Fill(ctx, p.username, creds.Username); err != nil {
		return err
	}
	if err := p.surface.Fill(ctx, p.password, creds.Password); err != nil {
		return err
	}
	_, err := service.Expect(ctx, p.surface, entity.EventNavigation, func() error {
		return p.surface.Click(ctx, p.loginButton)
	})
	return err
}

func (p *AuthPage) Logout(ctx context.Context) error {
	_, err := service.Expect(ctx, p.surface, entity.EventNavigation, func() error {
		return p.surface.Click(ctx, p.logoutLink)
	})
	return err
}

// Flash reads the current notice text, "" when none is shown.
func (p *AuthPage) Flash(ctx context.Context) (string, error) {
	visible, err := p.surface.Visible(ctx, p.flash)
	if err != nil || !visible {
		return "", err
	}
	text, err := p.surface.Text(ctx, p.flash)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *AuthPage) AtSecureArea(ctx context.Context) (bool, error) {
	return p.surface.Visible(ctx, p.secureTitle)
}

func (p *AuthPage) AtLogin() bool {
	return strings.Contains(p.surface.CurrentURL(), "/login")
}
