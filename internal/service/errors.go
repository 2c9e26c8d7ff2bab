package service

import (
	"errors"

	"github.com/luckyscan/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")

	ErrCaptchaRequired       = errors.New("captcha required")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid  = errors.New("captcha config invalid")
	ErrCaptchaGenerateFailed = errors.New("captcha generate failed")

	ErrPromotionNotFound = errors.New("promotion not found")
	ErrPromotionInvalid  = errors.New("promotion invalid")
	ErrPrizeTypeNotFound = errors.New("prize type not found")
	ErrPrizeTypeInvalid  = errors.New("prize type invalid")
	ErrPromotionReset    = errors.New("promotion reset failed")

	ErrTokenBatchInvalid  = errors.New("token batch invalid")
	ErrTokenBatchNotFound = errors.New("token batch not found")
	ErrTokenCreateFailed  = errors.New("token create failed")
	ErrExportFormat       = errors.New("export format invalid")

	ErrCustomerInvalid  = errors.New("customer invalid")
	ErrConsentRequired  = errors.New("consent required")
	ErrCustomerNotFound = errors.New("customer not found")

	ErrTokenNotFound     = errors.New("token not found")
	ErrTokenUsed         = errors.New("token already used")
	ErrTokenMismatch     = errors.New("token belongs to another promotion")
	ErrPromotionInactive = errors.New("promotion inactive")
	ErrPlayFailed        = errors.New("play failed")

	ErrPrizeCodeNotFound   = errors.New("prize code not found")
	ErrPrizeAlreadyClaimed = errors.New("prize already redeemed")
	ErrRedeemFailed        = errors.New("redeem failed")

	ErrStaffUserNotFound  = errors.New("staff user not found")
	ErrStaffUserExists    = errors.New("staff user exists")
	ErrStaffUserInvalid   = errors.New("staff user invalid")
	ErrStaffUserLastAdmin = errors.New("last admin")

	ErrDashboardRangeInvalid = errors.New("dashboard range invalid")
)

// PlayRejectedError 抽奖请求未通过校验，携带稳定的原因码
type PlayRejectedError struct {
	Reason models.PlayRejectReason
}

func (e *PlayRejectedError) Error() string {
	if e == nil {
		return "play rejected"
	}
	return "play rejected: " + string(e.Reason)
}

// Is 支持 errors.Is 按原因码比较
func (e *PlayRejectedError) Is(target error) bool {
	other, ok := target.(*PlayRejectedError)
	if !ok || e == nil || other == nil {
		return false
	}
	return other.Reason == e.Reason
}

// Unwrap 返回原因码对应的哨兵错误
func (e *PlayRejectedError) Unwrap() error {
	if e == nil {
		return nil
	}
	switch e.Reason {
	case models.PlayRejectTokenNotFound:
		return ErrTokenNotFound
	case models.PlayRejectTokenUsed:
		return ErrTokenUsed
	case models.PlayRejectTokenMismatch:
		return ErrTokenMismatch
	case models.PlayRejectPromotionInactive:
		return ErrPromotionInactive
	case models.PlayRejectCustomerNotFound:
		return ErrCustomerNotFound
	default:
		return nil
	}
}

func rejectPlay(reason models.PlayRejectReason) error {
	return &PlayRejectedError{Reason: reason}
}

// PlayRejectReasonOf 提取拒绝原因，非拒绝错误返回空
func PlayRejectReasonOf(err error) models.PlayRejectReason {
	var rejected *PlayRejectedError
	if errors.As(err, &rejected) && rejected != nil {
		return rejected.Reason
	}
	return models.PlayRejectNone
}

// AlreadyRedeemedError 重复核销时返回首次核销的信息
type AlreadyRedeemedError struct {
	Assignment *models.PrizeAssignment
}

func (e *AlreadyRedeemedError) Error() string {
	return ErrPrizeAlreadyClaimed.Error()
}

func (e *AlreadyRedeemedError) Unwrap() error {
	return ErrPrizeAlreadyClaimed
}
