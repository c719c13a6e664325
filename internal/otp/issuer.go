// Package otp implements the one-time passcode login flow: generating and
// delivering passcodes, and consuming them exactly once on verification.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"menuqr-service/internal/model"
	"menuqr-service/pkg/mailer"
)

// Classification of verification failures. Handlers must collapse the first
// three into one generic message so callers cannot probe which check failed.
var (
	ErrVendorNotFound = errors.New("vendor not found")
	ErrInvalidCode    = errors.New("invalid passcode")
	ErrExpiredCode    = errors.New("expired passcode")
	ErrPersistence    = errors.New("persistence failure")
	ErrDelivery       = errors.New("delivery failure")
)

// IsCredentialFailure reports whether err is one of the verification
// failures that must surface as the generic "invalid or expired" message.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrVendorNotFound) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrExpiredCode)
}

const mailSubject = "Your OTP for MenuQR Login"

// Issuer generates, stores, validates and invalidates login passcodes
type Issuer struct {
	db     *gorm.DB
	mailer mailer.Mailer
	ttl    time.Duration
}

// NewIssuer creates a passcode issuer backed by the given database handle
// and mail dispatcher
func NewIssuer(db *gorm.DB, m mailer.Mailer, ttl time.Duration) *Issuer {
	return &Issuer{db: db, mailer: m, ttl: ttl}
}

// RequestPasscode generates a fresh 6-digit passcode for the vendor, stores
// it with its expiry (creating the vendor row on first login) and mails it.
// Any previously outstanding passcode is overwritten. The operation succeeds
// only if both the write and the mail dispatch succeed.
func (i *Issuer) RequestPasscode(email string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	expiry := time.Now().Add(i.ttl)

	res := i.db.Model(&model.Vendor{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"otp": code, "otp_expiry": expiry})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		vendor := model.Vendor{Email: email, OTP: &code, OTPExpiry: &expiry}
		if err := i.db.Create(&vendor).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	body := fmt.Sprintf("<p>Your OTP is: <strong>%s</strong></p><p>It will expire in %d minutes.</p>",
		code, int(i.ttl.Minutes()))
	if err := i.mailer.Send(email, mailSubject, body); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return nil
}

// VerifyPasscode checks the submitted code for the vendor and consumes it on
// success. The checks run in order: record exists, code matches, code not
// expired. The consuming clear is a single conditional update so a concurrent
// verification of the same code cannot succeed twice.
func (i *Issuer) VerifyPasscode(email, submitted string) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := i.db.Where("email = ?", email).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if vendor.OTP == nil || *vendor.OTP != submitted {
		return nil, ErrInvalidCode
	}
	now := time.Now()
	if vendor.OTPExpiry == nil || !vendor.OTPExpiry.After(now) {
		return nil, ErrExpiredCode
	}

	// Compare-and-clear: only the request that clears the row wins. A
	// concurrent verify that lost the race sees zero rows affected.
	res := i.db.Model(&model.Vendor{}).
		Where("email = ? AND otp = ? AND otp_expiry > ?", email, submitted, now).
		Updates(map[string]interface{}{"otp": nil, "otp_expiry": nil})
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidCode
	}

	vendor.OTP = nil
	vendor.OTPExpiry = nil
	return &vendor, nil
}

// generateCode returns a uniformly random 6-digit decimal string in
// [100000, 999999], so the leading digit is never zero
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
