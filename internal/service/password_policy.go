package service

import (
	"unicode"

	"github.com/luckyscan/internal/config"
)

// PasswordPolicyError 密码不满足策略，Key 为 i18n 消息键
type PasswordPolicyError struct {
	Key  string
	Args []interface{}
}

func (e *PasswordPolicyError) Error() string {
	return e.Key
}

func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

type passwordCharClass struct {
	required bool
	key      string
	match    func(r rune) bool
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return &PasswordPolicyError{Key: "error.password_min_length", Args: []interface{}{policy.MinLength}}
	}
	classes := []passwordCharClass{
		{required: policy.RequireUpper, key: "error.password_require_upper", match: unicode.IsUpper},
		{required: policy.RequireLower, key: "error.password_require_lower", match: unicode.IsLower},
		{required: policy.RequireNumber, key: "error.password_require_number", match: unicode.IsDigit},
		{required: policy.RequireSpecial, key: "error.password_require_special", match: isSpecialRune},
	}
	for _, class := range classes {
		if !class.required {
			continue
		}
		if !containsRune(password, class.match) {
			return &PasswordPolicyError{Key: class.key}
		}
	}
	return nil
}

func isSpecialRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func containsRune(value string, match func(r rune) bool) bool {
	for _, r := range value {
		if match(r) {
			return true
		}
	}
	return false
}
