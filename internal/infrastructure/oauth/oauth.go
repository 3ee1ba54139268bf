package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// Profile — то, что нам нужно от OAuth-провайдера
type Profile struct {
	Provider   string
	ProviderID string
	Email      string
	Username   string
	AvatarURL  string
}

// Exchanger меняет authorization code на профиль пользователя
type Exchanger struct {
	google *oauth2.Config
	github *oauth2.Config
}

func NewExchanger(googleID, googleSecret, githubID, githubSecret, redirectURL string) *Exchanger {
	return &Exchanger{
		google: &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		github: &oauth2.Config{
			ClientID:     githubID,
			ClientSecret: githubSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (e *Exchanger) FetchProfile(ctx context.Context, provider, code string) (*Profile, error) {
	switch provider {
	case "google":
		return e.fetchGoogle(ctx, code)
	case "github":
		return e.fetchGithub(ctx, code)
	default:
		return nil, ErrUnknownProvider
	}
}

func (e *Exchanger) fetchGoogle(ctx context.Context, code string) (*Profile, error) {
	token, err := e.google.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, e.google.Client(ctx, token), "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}
	if info.ID == "" || info.Email == "" {
		return nil, errors.New("google returned incomplete profile")
	}

	return &Profile{
		Provider:   "google",
		ProviderID: info.ID,
		Email:      info.Email,
		Username:   info.Name,
		AvatarURL:  info.Picture,
	}, nil
}

func (e *Exchanger) fetchGithub(ctx context.Context, code string) (*Profile, error) {
	token, err := e.github.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github code exchange failed: %w", err)
	}
	client := e.github.Client(ctx, token)

	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &user); err != nil {
		return nil, err
	}

	email := user.Email
	if email == "" {
		// Email может быть скрыт в профиле — добираем отдельным запросом
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, errors.New("github account has no verified email")
	}

	return &Profile{
		Provider:   "github",
		ProviderID: fmt.Sprintf("%d", user.ID),
		Email:      email,
		Username:   user.Login,
		AvatarURL:  user.AvatarURL,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("oauth profile request failed: status=%d body=%s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
