package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/musedating/muse-engine/internal/domain"
)

// Account is the directory's persistence row. The profile is stored as a
// JSON blob next to the credentials so the directory never needs schema
// changes when the profile shape grows.
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Profile      []byte `gorm:"not null"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Directory is a local identity provider backed by a relational database.
// Emails are normalized to lower case before storage and lookup.
type Directory struct {
	db *gorm.DB

	mu        sync.Mutex
	listeners []func(*domain.User)
}

// NewDirectory migrates the accounts table and returns the provider.
func NewDirectory(db *gorm.DB) (*Directory, error) {
	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Directory{db: db}, nil
}

func (d *Directory) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var acct Account
	err := d.db.WithContext(ctx).First(&acct, "email = ?", normalize(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	var user domain.User
	if err := json.Unmarshal(acct.Profile, &user); err != nil {
		return nil, fmt.Errorf("corrupt profile for %s: %w", acct.ID, err)
	}

	acct.LastLoginAt = time.Now()
	_ = d.db.WithContext(ctx).Model(&acct).Update("last_login_at", acct.LastLoginAt).Error

	d.notify(&user)
	return &user, nil
}

func (d *Directory) Signup(ctx context.Context, email, password string, draft domain.User) (*domain.User, error) {
	email = normalize(email)

	exists, err := d.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := draft
	user.ID = uuid.NewString()
	user.Email = email

	profile, err := json.Marshal(&user)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	acct := Account{
		ID:           user.ID,
		Email:        email,
		PasswordHash: string(hash),
		Profile:      profile,
		LastLoginAt:  time.Now(),
	}
	if err := d.db.WithContext(ctx).Create(&acct).Error; err != nil {
		return nil, err
	}

	d.notify(&user)
	return &user, nil
}

func (d *Directory) Logout(_ context.Context) error {
	d.notify(nil)
	return nil
}

func (d *Directory) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&Account{}).
		Where("email = ?", normalize(email)).
		Count(&count).Error
	return count > 0, err
}

func (d *Directory) OnAuthChange(fn func(*domain.User)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

func (d *Directory) notify(user *domain.User) {
	d.mu.Lock()
	listeners := make([]func(*domain.User), len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
