package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
	"github.com/keito-ux/advent-calendar/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const authCookieName = "auth_token"

type AuthService struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	jwtSecret    string
	jwtExpiry    time.Duration
	secureCookie bool
}

func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, jwtSecret string, jwtExpiry time.Duration, secureCookie bool) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		secureCookie: secureCookie,
	}
}

// Register creates a user plus profile and returns the user.
func (s *AuthService) Register(email, password, username string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.Validation("email", "a valid email is required")
	}

	err := validation.ValidatePassword(password)
	if err != nil {
		return nil, apperror.Validation("password", err.Error())
	}

	err = validation.ValidateUsername(username)
	if err != nil {
		return nil, apperror.Validation("username", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	err = s.userRepo.Create(user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, apperror.Validation("email", "email is already registered")
	}
	if err != nil {
		return nil, apperror.Persistence("user create", err)
	}

	profile := &model.Profile{
		UserID:   user.ID,
		Username: strings.TrimSpace(username),
	}
	err = s.profileRepo.Create(profile)
	if err != nil {
		return nil, apperror.Persistence("profile create", err)
	}

	return user, nil
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Forbidden("invalid email or password")
	}
	if err != nil {
		return nil, apperror.Persistence("user load", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, apperror.Forbidden("invalid email or password")
	}

	return user, nil
}

// UserByID loads the user behind a verified token.
func (s *AuthService) UserByID(id string) (*model.User, error) {
	user, err := s.userRepo.ByID(id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, apperror.Persistence("user load", err)
	}
	return user, nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}
