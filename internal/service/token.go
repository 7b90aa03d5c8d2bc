// Package service contains the domain logic behind the HTTP handlers
package service

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"yingcang/pic-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Random bytes per bearer secret. 32 bytes keeps at least 256 bits of
// entropy after the URL-safe encoding.
const tokenSecretBytes = 32

// TokenService is the persisted bearer-token store for external API
// clients. Issuing is the only mutation that revokes siblings, which
// keeps a single live token per user without a uniqueness constraint.
type TokenService struct {
	DB *gorm.DB
}

func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{DB: db}
}

// Issue revokes every active token of the user and inserts a fresh
// one expiring ttlDays from now. Runs in one transaction so a failed
// insert rolls the revocations back.
func (s *TokenService) Issue(userID uint, ttlDays int) (*model.Token, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	tok := &model.Token{
		Token:     secret,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(ttlDays) * 24 * time.Hour),
		IsActive:  true,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(model.Token{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).
			Error
		if err != nil {
			return err
		}

		return tx.Create(tok).Error
	})
	if err != nil {
		zap.L().Error("Failed to issue token", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}

	return tok, nil
}

// Validate resolves a bearer secret into its token. A missing,
// revoked or expired secret is a normal negative result, never an
// error. Validation is a pure read.
func (s *TokenService) Validate(secret string) *model.Token {
	if secret == "" {
		return nil
	}

	var tok model.Token

	err := s.DB.
		Where("token = ? AND is_active = ?", secret, true).
		First(&tok).
		Error
	if err != nil {
		return nil
	}

	if !tok.IsValid() {
		return nil
	}

	return &tok
}

// Revoke flips a single token inactive. Reports whether it existed.
func (s *TokenService) Revoke(secret string) (bool, error) {
	res := s.DB.
		Model(model.Token{}).
		Where("token = ?", secret).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// RevokeAll flips every active token of the user inactive
func (s *TokenService) RevokeAll(userID uint) error {
	return s.DB.
		Model(model.Token{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).
		Error
}

// PurgeExpired hard-deletes every token past its expiry and returns
// the count. Only maintenance calls this, never request handling.
func (s *TokenService) PurgeExpired() (int64, error) {
	res := s.DB.
		Where("expires_at < ?", time.Now()).
		Delete(model.Token{})

	return res.RowsAffected, res.Error
}

// PurgeAll wipes the token table and returns the count
func (s *TokenService) PurgeAll() (int64, error) {
	res := s.DB.
		Where("1 = 1").
		Delete(model.Token{})

	return res.RowsAffected, res.Error
}

func generateSecret() (string, error) {
	b := make([]byte, tokenSecretBytes)

	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
