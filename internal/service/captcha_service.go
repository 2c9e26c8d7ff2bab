package service

import (
	"strings"
	"sync"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const captchaImageCharset = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaPublicSetting 前端可见的验证码配置
type CaptchaPublicSetting struct {
	Provider string          `json:"provider"`
	Scenes   map[string]bool `json:"scenes"`
}

// CaptchaService 验证码服务
// 按场景开关决定是否需要校验，图片挑战存放在进程内存中。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: normalizeCaptchaConfig(cfg)}
}

// PublicSetting 下发给前端的配置
func (s *CaptchaService) PublicSetting() CaptchaPublicSetting {
	cfg := s.config()
	return CaptchaPublicSetting{
		Provider: cfg.Provider,
		Scenes: map[string]bool{
			constants.CaptchaSceneRegister:   s.sceneEnabled(cfg, constants.CaptchaSceneRegister),
			constants.CaptchaSceneStaffLogin: s.sceneEnabled(cfg, constants.CaptchaSceneStaffLogin),
		},
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	cfg := s.config()
	if cfg.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}
	driver := base64Captcha.NewDriverString(
		cfg.Image.Height,
		cfg.Image.Width,
		cfg.Image.NoiseCount,
		cfg.Image.ShowLine,
		cfg.Image.Length,
		captchaImageCharset,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store(cfg))
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, ErrCaptchaGenerateFailed
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，场景未开启时直接放行
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	cfg := s.config()
	if !s.sceneEnabled(cfg, scene) {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.store(cfg).Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) config() config.CaptchaConfig {
	if s == nil {
		return normalizeCaptchaConfig(config.CaptchaConfig{})
	}
	return s.cfg
}

func (s *CaptchaService) sceneEnabled(cfg config.CaptchaConfig, scene string) bool {
	if cfg.Provider != constants.CaptchaProviderImage {
		return false
	}
	switch strings.TrimSpace(scene) {
	case constants.CaptchaSceneRegister:
		return cfg.Scenes.Register
	case constants.CaptchaSceneStaffLogin:
		return cfg.Scenes.StaffLogin
	default:
		return false
	}
}

func (s *CaptchaService) store(cfg config.CaptchaConfig) base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		s.imageStore = base64Captcha.NewMemoryStore(cfg.Image.MaxStore, time.Duration(cfg.Image.ExpireSeconds)*time.Second)
	}
	return s.imageStore
}

// normalizeCaptchaConfig 归一化验证码配置
func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider != constants.CaptchaProviderImage {
		provider = constants.CaptchaProviderNone
	}
	cfg.Provider = provider

	if cfg.Image.Length < 4 || cfg.Image.Length > 8 {
		cfg.Image.Length = 5
	}
	if cfg.Image.Width < 100 {
		cfg.Image.Width = 240
	}
	if cfg.Image.Height < 40 {
		cfg.Image.Height = 80
	}
	if cfg.Image.NoiseCount < 0 {
		cfg.Image.NoiseCount = 2
	}
	if cfg.Image.ShowLine < 0 {
		cfg.Image.ShowLine = 2
	}
	if cfg.Image.ExpireSeconds < 30 || cfg.Image.ExpireSeconds > 3600 {
		cfg.Image.ExpireSeconds = 300
	}
	if cfg.Image.MaxStore < 100 {
		cfg.Image.MaxStore = 10240
	}
	return cfg
}
