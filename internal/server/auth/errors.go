package auth

import "errors"

var (
	ErrPhoneAlreadyExists = errors.New("phone already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoPendingOTP       = errors.New("no pending otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("otp mismatch")
	ErrTooManyAttempts    = errors.New("too many otp attempts")
	ErrResendCooldown     = errors.New("otp resend cooldown")
)
