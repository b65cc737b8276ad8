package usecase

import "errors"

var (
	// ErrInvalidInput is returned when required signup/login fields are
	// missing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRole is returned when the requested role is neither buyer
	// nor seller.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmailAlreadyRegistered is returned when the identity provider
	// already holds a credential for the given email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrWeakPassword is returned when the password fails the provider's
	// password policy.
	ErrWeakPassword = errors.New("password does not meet policy")

	// ErrUserNotFound is returned when no profile row exists for the email
	// used at login.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned when the email has a profile row but the
	// provider rejected the credentials.
	ErrWrongPassword = errors.New("wrong password")

	// ErrInvalidCredentials is returned for provider sign-in failures that
	// are not attributable to an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProfileCreationFailed is returned when the profile row could not be
	// inserted after the provider credential was created. The credential is
	// removed by best-effort compensation before this error surfaces.
	ErrProfileCreationFailed = errors.New("profile creation failed")

	// ErrProfileNotFound indicates a consistency fault: the provider
	// authenticated an identity that has no profile row.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrLogoutFailed is returned when the provider could not invalidate the
	// session.
	ErrLogoutFailed = errors.New("logout failed")
)
