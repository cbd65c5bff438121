package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

const (
	PASSWORD_MIN_LEN = 6
	PASSWORD_MAX_LEN = 512
)

func SanitizeEmail(email string) string {
	email = strings.ToLower(email)
	email = strings.Trim(email, " \n\r")
	return email
}

func SanitizePhoneNumber(phone string) string {
	phone = strings.Trim(phone, " \n\r")
	return phone
}

// CheckEmailFormat to check if input string is a correct email address
func CheckEmailFormat(email string) bool {
	if len(email) > 254 {
		return false
	}
	_, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// additional regex check for correct email format
	emailRule := regexp.MustCompile(`^[a-zA-Z0-9._%+'-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRule.MatchString(email)
}

// BlurEmailAddress transforms an email address to reduce exposed personal info
func BlurEmailAddress(email string) string {
	items := strings.Split(email, "@")
	if len(items) < 1 || len(items[0]) < 1 {
		return "****@**"
	}

	blurredEmail := string([]rune(items[0])[0]) + "****@" + strings.Join(items[1:], "")
	return blurredEmail
}

// CheckPasswordFormat to check if password fulfills the length policy
func CheckPasswordFormat(password string) bool {
	pl := len(password)
	return pl >= PASSWORD_MIN_LEN && pl <= PASSWORD_MAX_LEN
}
