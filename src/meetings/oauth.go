package meetings

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	// CalendarScopes let a mentor propose meetings from their own calendar.
	CalendarScopes = []string{
		"https://www.googleapis.com/auth/calendar.events",
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
		"openid",
	}
	// ProfileScopes only identify the signed-in user.
	ProfileScopes = []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
		"openid",
	}
)

// OAuthConfig builds the Google OAuth client from explicit id/secret, or from
// a downloaded client-secrets file when they are not set.
func OAuthConfig(clientID, clientSecret, credentialsFile, redirectURL string, scopes []string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		}, nil
	}
	if credentialsFile == "" {
		return nil, errors.New("oauth: set GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET or GOOGLE_CREDENTIALS_FILE")
	}
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("oauth: read credentials file: %w", err)
	}
	conf, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("oauth: parse credentials file: %w", err)
	}
	if redirectURL != "" {
		conf.RedirectURL = redirectURL
	}
	return conf, nil
}

// WithRedirect returns a copy of conf with a different callback and scopes.
func WithRedirect(conf *oauth2.Config, redirectURL string, scopes []string) *oauth2.Config {
	c := *conf
	c.RedirectURL = redirectURL
	c.Scopes = scopes
	return &c
}

// UserEmail looks up the email of the account that granted tok.
func UserEmail(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (string, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
	if err != nil {
		return "", fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("userinfo: %w", err)
	}
	if info.Email == "" {
		return "", errors.New("userinfo: account has no email")
	}
	return info.Email, nil
}

// GoogleIdentity runs the browser consent flow against one base OAuth client,
// switching callback and scopes per flow.
type GoogleIdentity struct {
	base *oauth2.Config
}

func NewGoogleIdentity(base *oauth2.Config) *GoogleIdentity {
	return &GoogleIdentity{base: base}
}

// AuthCodeURL asks for offline access with a consent prompt so the grant
// always carries a refresh token.
func (g *GoogleIdentity) AuthCodeURL(callbackURL string, scopes []string, state string) string {
	conf := WithRedirect(g.base, callbackURL, scopes)
	return conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for a token and the email of the
// account that granted it.
func (g *GoogleIdentity) Exchange(ctx context.Context, callbackURL string, scopes []string, code string) (*oauth2.Token, string, error) {
	conf := WithRedirect(g.base, callbackURL, scopes)
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}
	email, err := UserEmail(ctx, conf, tok)
	if err != nil {
		return nil, "", err
	}
	return tok, email, nil
}

// CalendarConfig returns the OAuth client used for calendar calls.
func (g *GoogleIdentity) CalendarConfig() *oauth2.Config {
	return g.base
}
