// Package users registers accounts, checks credentials and issues the JWTs
// the API authenticates with.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const tokenTTL = 24 * time.Hour

type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     string
	Language string
}

type Claims struct {
	UserID string
	Role   string
}

type Service struct {
	store  store.Store
	locker store.Locker
	secret []byte
	log    *logger.Logger
	now    func() time.Time
}

func NewService(s store.Store, locker store.Locker, secret string, log *logger.Logger) *Service {
	return &Service{
		store:  s,
		locker: locker,
		secret: []byte(secret),
		log:    log.WithComponent("users"),
		now:    time.Now,
	}
}

func (in RegisterInput) validate() []string {
	var violations []string
	if strings.TrimSpace(in.Name) == "" {
		violations = append(violations, "name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		violations = append(violations, "email is not valid")
	}
	if len(strings.TrimSpace(in.Username)) < 3 {
		violations = append(violations, "username must be at least 3 characters")
	}
	if len(in.Password) < 6 {
		violations = append(violations, "password must be at least 6 characters")
	}
	if in.Role != "" && !models.ValidRole(in.Role) {
		violations = append(violations, fmt.Sprintf("role %q is not valid", in.Role))
	}
	if in.Language != "" && !models.ValidLanguage(in.Language) {
		violations = append(violations, fmt.Sprintf("language %q is not valid", in.Language))
	}
	return violations
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if v := in.validate(); len(v) > 0 {
		return nil, apperrors.NewValidation(apperrors.KindInvalidInput, v...)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Username:  strings.TrimSpace(in.Username),
		Password:  string(hashed),
		Role:      in.Role,
		Language:  in.Language,
		CreatedAt: s.now(),
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if user.Language == "" {
		user.Language = models.LanguagePersian
	}

	unlock, err := store.LockWait(ctx, s.locker, store.UsersLockName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.store.Update(ctx, func(tx store.Tx) error {
		users, err := loadUsers(ctx, tx)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.Email == user.Email || strings.EqualFold(u.Username, user.Username) {
				return apperrors.NewValidation(apperrors.KindDuplicateUser, "email or username is already registered")
			}
		}
		users = append(users, user)
		if err := store.SetJSON(ctx, tx, store.UsersKey, users); err != nil {
			return err
		}
		return store.SetJSON(ctx, tx, store.SettingsKey(user.ID), models.Settings{Language: user.Language})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Login accepts either the email or the username as identifier.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return "", nil, err
	}
	identifier = strings.TrimSpace(identifier)

	var user *models.User
	for i := range users {
		if strings.EqualFold(users[i].Email, identifier) || strings.EqualFold(users[i].Username, identifier) {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     s.now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, user, nil
}

func (s *Service) ParseToken(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: userID, Role: role}, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	users, err := loadUsers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, apperrors.NewNotFound(apperrors.KindUserMissing, userID)
}

func (s *Service) Settings(ctx context.Context, userID string) (models.Settings, error) {
	settings := models.Settings{Language: models.LanguagePersian}
	if _, err := store.GetJSON(ctx, s.store, store.SettingsKey(userID), &settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// SetLanguage stores the language on both the settings record and the user.
func (s *Service) SetLanguage(ctx context.Context, userID, lang string) (models.Settings, error) {
	if !models.ValidLanguage(lang) {
		return models.Settings{}, apperrors.NewValidation(apperrors.KindInvalidInput,
			fmt.Sprintf("language %q must be %s or %s", lang, models.LanguageEnglish, models.LanguagePersian))
	}
	settings := models.Settings{Language: lang}
	unlock, err := store.LockWait(ctx, s.locker, store.UsersLockName)
	if err != nil {
		return models.Settings{}, err
	}
	defer unlock()

	err = s.store.Update(ctx, func(tx store.Tx) error {
		users, err := loadUsers(ctx, tx)
		if err != nil {
			return err
		}
		found := false
		for i := range users {
			if users[i].ID == userID {
				users[i].Language = lang
				found = true
			}
		}
		if !found {
			return apperrors.NewNotFound(apperrors.KindUserMissing, userID)
		}
		if err := store.SetJSON(ctx, tx, store.UsersKey, users); err != nil {
			return err
		}
		return store.SetJSON(ctx, tx, store.SettingsKey(userID), settings)
	})
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func loadUsers(ctx context.Context, tx store.Tx) ([]models.User, error) {
	var users []models.User
	if _, err := store.GetJSON(ctx, tx, store.UsersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}
