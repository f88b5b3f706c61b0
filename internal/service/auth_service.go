package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/models"
	"github.com/VanZep/FeedbackBook/internal/repository"
	"github.com/VanZep/FeedbackBook/internal/validation"
	"github.com/VanZep/FeedbackBook/pkg/apperror"
)

var (
	ErrEmailMismatch    = apperror.Conflict("this username is already registered with a different email")
	ErrUsernameMismatch = apperror.Conflict("this email is already registered with a different username")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrInvalidCode      = apperror.BadRequest("invalid confirmation code")
	ErrInvalidToken     = errors.New("invalid token")
)

// CodeSender dispatches a confirmation code to the user. Delivery failure
// never fails a signup.
type CodeSender interface {
	SendConfirmationCode(to, username, code string) error
}

// Claims is the access-token payload.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*dto.SignupResponse, error)
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	sender         CodeSender
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sender CodeSender, jwtSecret string, accessTokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:       userRepo,
		sender:         sender,
		jwtSecret:      jwtSecret,
		accessTokenTTL: accessTokenTTL,
	}
}

// Signup validates the pair, gets or creates the user and rotates the
// confirmation code. Repeating signup for a matching pending pair is
// idempotent: no second row, a fresh code.
func (s *authService) Signup(ctx context.Context, username, email string) (*dto.SignupResponse, error) {
	if err := validation.Username(username); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	byName, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if byName != nil && byName.Email != email {
		return nil, ErrEmailMismatch
	}

	byEmail, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if byEmail != nil && byEmail.Username != username {
		return nil, ErrUsernameMismatch
	}

	user := byName
	if user == nil {
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.ConfirmationCode = string(hash)

	if byName == nil {
		err = s.userRepo.Create(ctx, user)
	} else {
		err = s.userRepo.Save(ctx, user)
	}
	if err != nil {
		// a concurrent signup can lose the race to the uniqueness constraints
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, err
	}

	// fire-and-forget: signup succeeds regardless of delivery
	if err := s.sender.SendConfirmationCode(email, username, code); err != nil {
		log.Printf("failed to send confirmation code to %s: %v", email, err)
	}

	return &dto.SignupResponse{Username: username, Email: email}, nil
}

// IssueToken exchanges (username, confirmation code) for a bearer token.
func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationCode == "" {
		return "", ErrInvalidCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(confirmationCode)); err != nil {
		return "", ErrInvalidCode
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateConfirmationCode() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
