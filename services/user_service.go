// Package services — UserService: kullanıcı yönetimi iş mantığı.
//
// Bu service, profil güncelleme ve admin kullanıcı yönetimi
// (listeleme, hesap aktif/deaktif etme) işlemlerini içerir.
//
// Kritik güvenlik kuralı — Hesap Deaktivasyonu:
// Deaktif edilen hesabın refresh session'ları anında silinir, access
// token'ı ise auth middleware'deki is_active kontrolüne takılır. Yani
// deaktivasyon en geç bir sonraki istekte etkili olur.
package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/repository"
)

// Admin kullanıcı listesi sayfalama sınırları.
const (
	defaultUserPageLimit = 20
	maxUserPageLimit     = 100
)

// UserService, kullanıcı yönetimi iş mantığı interface'i.
type UserService interface {
	// UpdateProfile, kullanıcının kendi profilini günceller (display name, bio).
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)

	// List, kullanıcıları sayfalı listeler (sadece admin).
	List(ctx context.Context, page, limit int) (*models.UserPage, error)

	// SetActive, bir hesabı aktif/deaktif eder (sadece admin).
	// Admin kendi hesabını deaktif edemez.
	SetActive(ctx context.Context, actor *models.User, targetID string, active bool) (*models.User, error)
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewUserService, UserService implementasyonunu oluşturur.
func NewUserService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Partial update: sadece non-nil field'ları güncelle.
	// Boş string gönderilirse alan temizlenir (nil'e çevrilir) —
	// omitempty sayesinde document'tan tamamen düşer.
	if req.DisplayName != nil {
		if *req.DisplayName == "" {
			user.DisplayName = nil
		} else {
			user.DisplayName = req.DisplayName
		}
	}
	if req.Bio != nil {
		if *req.Bio == "" {
			user.Bio = nil
		} else {
			user.Bio = req.Bio
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	user.PasswordHash = "" // Güvenlik
	return user, nil
}

func (s *userService) List(ctx context.Context, page, limit int) (*models.UserPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxUserPageLimit {
		limit = defaultUserPageLimit
	}

	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = "" // Güvenlik — hash admin'e bile dönmez
	}
	if users == nil {
		users = []models.User{} // null yerine boş dizi
	}

	return &models.UserPage{
		Users:   users,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page*limit) < total,
	}, nil
}

func (s *userService) SetActive(ctx context.Context, actor *models.User, targetID string, active bool) (*models.User, error) {
	userID, err := parseObjectID(targetID, "user")
	if err != nil {
		return nil, err
	}

	// Admin kendi hesabını deaktif edemez — sistem admin'siz kalabilir
	if !active && actor.ID == userID {
		return nil, fmt.Errorf("%w: you cannot deactivate your own account", pkg.ErrBadRequest)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Zaten istenen durumda — idempotent, session'lara dokunma
	if user.IsActive == active {
		user.PasswordHash = ""
		return user, nil
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	user.IsActive = active

	// Deaktivasyon refresh session'ları da öldürür — kullanıcı yeni
	// access token alamaz. Eldeki access token middleware'e takılır.
	if !active {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}

	user.PasswordHash = ""
	return user, nil
}
