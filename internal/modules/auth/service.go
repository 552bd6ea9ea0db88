package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/schoolboard/core/internal/models"
	sessionpkg "github.com/schoolboard/core/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 30 * time.Minute

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Login(username, password, ip, ua string) (string, error) {
	var u models.UserModel
	if err := s.db.Select("id, password").
		Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", errUserNotFound
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", errWrongPassword
	}

	now := time.Now()
	_ = s.db.Model(&models.UserModel{}).Where("id = ?", u.ID).
		Updates(map[string]interface{}{"last_login_time": now, "last_login_ip": ip}).Error

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	return token, err
}

// Register creates the first administrator. Further registrations are
// gated by the allow flag from site settings.
func (s *Service) Register(dto *RegisterDTO, allowAdditional bool) (*models.UserModel, error) {
	var count int64
	s.db.Model(&models.UserModel{}).Count(&count)
	if count > 0 && !allowAdditional {
		return nil, errAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{Username: dto.Username, Password: string(hash), Name: name, Mail: dto.Mail}
	return &u, s.db.Create(&u).Error
}

func (s *Service) GetUser(userID string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) UpdateProfile(userID string, dto *UpdateProfileDTO) (*models.UserModel, error) {
	u, err := s.GetUser(userID)
	if err != nil || u == nil {
		return u, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Avatar != nil {
		updates["avatar"] = *dto.Avatar
	}
	if dto.Mail != nil {
		updates["mail"] = *dto.Mail
	}
	if len(updates) == 0 {
		return u, nil
	}
	return u, s.db.Model(u).Updates(updates).Error
}

// ChangePassword verifies the old password, replaces it, and signs out
// every other session.
func (s *Service) ChangePassword(userID, oldPassword, newPassword, keepSessionID string) error {
	var u models.UserModel
	if err := s.db.Select("id, password").First(&u, "id = ?", userID).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)); err != nil {
		return errWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.Model(&u).Update("password", string(hash)).Error; err != nil {
		return err
	}

	sessions, err := sessionpkg.ListActive(s.db, userID)
	if err != nil {
		return nil
	}
	for _, sess := range sessions {
		if sess.ID != keepSessionID {
			_ = sessionpkg.Revoke(s.db, userID, sess.ID)
		}
	}
	return nil
}

// CreateResetToken issues a single-use password reset token. The token
// is returned for delivery out of band.
func (s *Service) CreateResetToken(username string) (string, error) {
	var u models.UserModel
	if err := s.db.Select("id").Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errUserNotFound
		}
		return "", err
	}

	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	t := models.PasswordResetToken{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	return token, s.db.Create(&t).Error
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	var t models.PasswordResetToken
	err := s.db.Where("token = ? AND used_at IS NULL AND expires_at > ?", token, time.Now()).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserModel{}).Where("id = ?", t.UserID).
			Update("password", string(hash)).Error; err != nil {
			return err
		}
		if err := tx.Model(&t).Update("used_at", now).Error; err != nil {
			return err
		}
		return sessionpkg.RevokeAll(tx, t.UserID)
	})
}
