package totp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	period = 30
	// accept one step of clock skew in both directions
	skew = 1
)

var validateOpts = totp.ValidateOpts{
	Period:    period,
	Skew:      skew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type Enrollment struct {
	Secret          string
	ProvisioningURI string
}

// GenerateEnrollment creates a fresh shared secret and the otpauth URI used
// for QR provisioning. The secret is not active until the caller confirms a
// code against it.
func GenerateEnrollment(issuer string, accountName string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}
	return &Enrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
	}, nil
}

// VerifyCode checks a 6-digit code against the shared secret.
func VerifyCode(secret string, code string) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), validateOpts)
	if err != nil {
		return false
	}
	return valid
}
