package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
	"github.com/farellandr/mealpass/internal/store/storetest"
)

func newTestService() *Service {
	return NewService(store.NewMemoryStore(), store.NewLocalLocker(), "test-secret", logger.Discard())
}

func registerSara(t *testing.T, s *Service) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{
		Name:     "Sara Ahmadi",
		Email:    "Sara@Example.com",
		Username: "sara",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService()
	u := registerSara(t, s)

	if u.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if u.Role != models.RoleStudent || u.Language != models.LanguagePersian || u.Email != "sara@example.com" {
		t.Errorf("defaults not applied: %+v", u)
	}

	for _, id := range []string{"sara", "SARA@example.com"} {
		token, got, err := s.Login(context.Background(), id, "secret123")
		if err != nil {
			t.Fatalf("login %q: %v", id, err)
		}
		if got.ID != u.ID {
			t.Errorf("logged in as %s; want %s", got.ID, u.ID)
		}
		claims, err := s.ParseToken(token)
		if err != nil {
			t.Fatal(err)
		}
		if claims.UserID != u.ID || claims.Role != models.RoleStudent {
			t.Errorf("claims = %+v", claims)
		}
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestService()
	registerSara(t, s)

	if _, _, err := s.Login(context.Background(), "sara", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
	if _, _, err := s.Login(context.Background(), "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestService()
	registerSara(t, s)

	_, err := s.Register(context.Background(), RegisterInput{
		Name: "Other", Email: "other@example.com", Username: "SARA", Password: "secret123",
	})
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) || ve.Kind != apperrors.KindDuplicateUser {
		t.Fatalf("err = %v", err)
	}
}

func TestRegisterListsAllViolations(t *testing.T) {
	s := newTestService()
	_, err := s.Register(context.Background(), RegisterInput{Email: "nope", Password: "1", Role: "admin"})
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v", err)
	}
	if len(ve.Violations) != 5 {
		t.Errorf("violations = %v", ve.Violations)
	}
}

func TestExpiredToken(t *testing.T) {
	s := newTestService()
	registerSara(t, s)
	token, _, err := s.Login(context.Background(), "sara", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := s.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v", err)
	}

	other := NewService(store.NewMemoryStore(), store.NewLocalLocker(), "another-secret", logger.Discard())
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token accepted: %v", err)
	}
}

func TestSetLanguage(t *testing.T) {
	s := newTestService()
	u := registerSara(t, s)
	ctx := context.Background()

	if _, err := s.SetLanguage(ctx, u.ID, "de"); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := s.SetLanguage(ctx, u.ID, models.LanguageEnglish); err != nil {
		t.Fatal(err)
	}
	settings, err := s.Settings(ctx, u.ID)
	if err != nil || settings.Language != models.LanguageEnglish {
		t.Fatalf("settings = %+v, %v", settings, err)
	}
	got, _ := s.Get(ctx, u.ID)
	if got.Language != models.LanguageEnglish {
		t.Errorf("user language = %s", got.Language)
	}

	_, err = s.SetLanguage(ctx, "missing", models.LanguageEnglish)
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("err = %v", err)
	}
}

func TestConcurrentRegistrationsAreAllStored(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewUnserialized(2 * time.Millisecond)
	s := NewService(st, store.NewLocalLocker(), "test-secret", logger.Discard())

	const n = 6
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Register(ctx, RegisterInput{
				Name:     fmt.Sprintf("Student %d", i),
				Email:    fmt.Sprintf("student%d@uni.ac.ir", i),
				Username: fmt.Sprintf("student%d", i),
				Password: "secret123",
			})
			if err != nil {
				t.Errorf("register %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	stored, err := loadUsers(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != n {
		t.Fatalf("stored %d users; want %d", len(stored), n)
	}
	for i := 0; i < n; i++ {
		if _, _, err := s.Login(ctx, fmt.Sprintf("student%d", i), "secret123"); err != nil {
			t.Errorf("login student%d: %v", i, err)
		}
	}
}
