package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/constants"
)

func TestCaptchaDisabledProviderSkipsVerification(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none", Scenes: config.CaptchaSceneConfig{Register: true}})
	if err := svc.Verify(constants.CaptchaSceneRegister, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("provider none should skip verification, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("image challenge without image provider want ErrCaptchaConfigInvalid got %v", err)
	}
	setting := svc.PublicSetting()
	if setting.Provider != constants.CaptchaProviderNone || setting.Scenes[constants.CaptchaSceneRegister] {
		t.Fatalf("unexpected public setting: %+v", setting)
	}
}

func TestCaptchaImageSceneRequiresAnswer(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: "IMAGE",
		Scenes:   config.CaptchaSceneConfig{Register: true},
	})

	if err := svc.Verify(constants.CaptchaSceneStaffLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled scene should pass, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneRegister, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("empty payload want ErrCaptchaRequired got %v", err)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("unexpected challenge: id=%q image prefix=%q", challenge.CaptchaID, challenge.ImageBase64[:16])
	}
	err = svc.Verify(constants.CaptchaSceneRegister, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "0000000"})
	if !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("wrong answer want ErrCaptchaInvalid got %v", err)
	}
}

func TestNormalizeCaptchaConfigDefaults(t *testing.T) {
	cfg := normalizeCaptchaConfig(config.CaptchaConfig{Provider: "turnstile"})
	if cfg.Provider != constants.CaptchaProviderNone {
		t.Fatalf("unsupported provider should fall back to none, got %s", cfg.Provider)
	}
	if cfg.Image.Length != 5 || cfg.Image.Width != 240 || cfg.Image.Height != 80 || cfg.Image.ExpireSeconds != 300 || cfg.Image.MaxStore != 10240 {
		t.Fatalf("unexpected defaults: %+v", cfg.Image)
	}
}
