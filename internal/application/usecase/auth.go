package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"courseplatform/internal/domain"
	"courseplatform/internal/infrastructure/cache"
	"courseplatform/internal/infrastructure/email"
	"courseplatform/internal/infrastructure/oauth"
	"courseplatform/internal/infrastructure/repository"
	"courseplatform/internal/infrastructure/security"

	"github.com/google/uuid"
)

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	emailSender  *email.EmailSender
	exchanger    *oauth.Exchanger
}

func NewAuthUseCase(
	ur *repository.UserRepository,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	es *email.EmailSender,
	ex *oauth.Exchanger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     ur,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		emailSender:  es,
		exchanger:    ex,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, username, emailAddr, password string) (string, error) {
	if existing, _ := uc.userRepo.GetByEmail(ctx, emailAddr); existing != nil {
		return "", domain.ErrUserAlreadyExists
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    emailAddr,
		Password: hash,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	// Письмо с подтверждением шлём асинхронно: регистрация не ждёт SendGrid
	verifyToken := uuid.New().String()
	if err := uc.tokenCache.SaveVerifyToken(ctx, verifyToken, user.ID.String()); err != nil {
		return "", err
	}

	go func() {
		if err := uc.emailSender.SendVerificationEmail(user.Email, verifyToken); err != nil {
			log.Printf("ERROR: Failed to send verification email to %s: %v", user.Email, err)
		}
	}()

	return user.ID.String(), nil
}

func (uc *AuthUseCase) VerifyEmail(ctx context.Context, token string) error {
	userIDStr, err := uc.tokenCache.GetVerifyToken(ctx, token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.New("invalid token")
	}

	if err := uc.userRepo.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}

	_ = uc.tokenCache.DeleteVerifyToken(ctx, token)
	return nil
}

func (uc *AuthUseCase) Login(ctx context.Context, emailAddr, password string) (string, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if !user.IsEmailVerified {
		return "", "", errors.New("email not verified")
	}

	_ = uc.userRepo.TouchLastLogin(ctx, user.ID)

	return uc.generateAndSaveTokens(ctx, user.ID.String())
}

func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	userID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", err
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cachedID != userID {
		return "", "", errors.New("token revoked")
	}
	// Ротация: старый токен сжигаем
	_ = uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken)

	return uc.generateAndSaveTokens(ctx, userID)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

func (uc *AuthUseCase) ValidateAccess(token string) (string, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}

func (uc *AuthUseCase) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := uc.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		// Не палим наружу, существует ли email
		return nil
	}

	resetToken := uuid.New().String()
	if err := uc.tokenCache.SaveResetToken(ctx, resetToken, user.ID.String()); err != nil {
		return err
	}

	go func() {
		if err := uc.emailSender.SendResetEmail(user.Email, resetToken); err != nil {
			log.Printf("ERROR: Failed to send reset email to %s: %v", user.Email, err)
		}
	}()

	return nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	userIDStr, err := uc.tokenCache.GetResetToken(ctx, token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.New("invalid token")
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := uc.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// Токен одноразовый
	_ = uc.tokenCache.DeleteResetToken(ctx, token)
	return nil
}

// OAuthLogin: code -> профиль -> найти/привязать/создать юзера -> токены
func (uc *AuthUseCase) OAuthLogin(ctx context.Context, provider, code string) (string, string, error) {
	profile, err := uc.exchanger.FetchProfile(ctx, provider, code)
	if err != nil {
		return "", "", err
	}

	user, err := uc.userRepo.GetByOAuthID(ctx, profile.Provider, profile.ProviderID)
	if err != nil {
		// Не нашли по OAuth ID — пробуем привязать к существующему email
		user, err = uc.userRepo.GetByEmail(ctx, profile.Email)
		if err == nil {
			uc.linkOAuth(user, profile)
			if err := uc.userRepo.Update(ctx, user); err != nil {
				return "", "", err
			}
		} else {
			user, err = uc.createOAuthUser(ctx, profile)
			if err != nil {
				return "", "", err
			}
		}
	}

	_ = uc.userRepo.TouchLastLogin(ctx, user.ID)

	return uc.generateAndSaveTokens(ctx, user.ID.String())
}

func (uc *AuthUseCase) linkOAuth(user *domain.User, profile *oauth.Profile) {
	if profile.Provider == "google" {
		user.GoogleID = profile.ProviderID
	} else {
		user.GithubID = profile.ProviderID
	}
	if user.AvatarURL == "" {
		user.AvatarURL = profile.AvatarURL
	}
}

func (uc *AuthUseCase) createOAuthUser(ctx context.Context, profile *oauth.Profile) (*domain.User, error) {
	// Пароля нет — кладём хеш случайной строки, логин только через OAuth
	hash, err := uc.hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, err
	}

	username := profile.Username
	if username == "" {
		username = strings.SplitN(profile.Email, "@", 2)[0]
	}

	user := &domain.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           profile.Email,
		Password:        hash,
		AvatarURL:       profile.AvatarURL,
		IsEmailVerified: true, // OAuth-провайдер уже проверил email
	}
	uc.linkOAuth(user, profile)

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Коллизия username — добавляем суффикс и пробуем ещё раз
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			user.Username = username + "-" + uuid.New().String()[:8]
			err = uc.userRepo.Create(ctx, user)
		}
		if err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, userID string) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(userID)
	if err != nil {
		return "", "", err
	}

	if err := uc.tokenCache.SaveRefresh(ctx, userID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
