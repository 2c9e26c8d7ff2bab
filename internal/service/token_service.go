package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/constants"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	"gorm.io/gorm"
)

const tokenGenerateMaxAttemptsFactor = 3

// TokenService 券码服务
type TokenService struct {
	tokenRepo     repository.TokenRepository
	promotionRepo repository.PromotionRepository
	lotteryCfg    config.LotteryConfig
	frontendURL   string
	now           func() time.Time
}

// NewTokenService 创建券码服务
func NewTokenService(tokenRepo repository.TokenRepository, promotionRepo repository.PromotionRepository, cfg *config.Config) *TokenService {
	svc := &TokenService{
		tokenRepo:     tokenRepo,
		promotionRepo: promotionRepo,
		now:           time.Now,
	}
	if cfg != nil {
		svc.lotteryCfg = cfg.Lottery.Normalize()
		svc.frontendURL = strings.TrimRight(strings.TrimSpace(cfg.App.FrontendURL), "/")
	} else {
		svc.lotteryCfg = config.LotteryConfig{}.Normalize()
	}
	return svc
}

// GenerateTokensInput 生成券码参数
type GenerateTokensInput struct {
	PromotionID uint
	Quantity    int
	Prefix      string
	CreatedBy   *uint
}

// GenerateTokensResult 生成结果
type GenerateTokensResult struct {
	Batch     *models.TokenBatch `json:"batch"`
	Requested int                `json:"requested"`
	Created   int64              `json:"created"`
}

// GenerateTokens 生成一批券码，重复券码跳过
func (s *TokenService) GenerateTokens(input GenerateTokensInput) (*GenerateTokensResult, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, ErrTokenCreateFailed
	}
	if input.PromotionID == 0 || input.Quantity <= 0 || input.Quantity > s.lotteryCfg.MaxBatchSize {
		return nil, ErrTokenBatchInvalid
	}
	promotion, err := s.promotionRepo.GetByID(input.PromotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}

	prefix := normalizeTokenPrefix(input.Prefix)
	now := s.now()
	seen := make(map[string]struct{}, input.Quantity)
	tokens := make([]models.Token, 0, input.Quantity)
	maxAttempts := input.Quantity * tokenGenerateMaxAttemptsFactor
	for attempt := 0; len(tokens) < input.Quantity && attempt < maxAttempts; attempt++ {
		code, err := generateTokenCode(prefix, s.lotteryCfg.TokenCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate token code: %w", err)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		tokens = append(tokens, models.Token{
			Code:      code,
			Status:    models.TokenStatusAvailable,
			CreatedAt: now,
		})
	}

	batch := &models.TokenBatch{
		BatchNo:     generateTokenBatchNo(now),
		PromotionID: promotion.ID,
		Prefix:      prefix,
		Quantity:    input.Quantity,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
	}
	var created int64
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		count, err := s.tokenRepo.WithTx(tx).CreateBatch(batch, tokens)
		if err != nil {
			return err
		}
		created = count
		return nil
	}); err != nil {
		logger.Errorw("token_batch_create_failed", "promotion_id", promotion.ID, "quantity", input.Quantity, "error", err)
		return nil, ErrTokenCreateFailed
	}

	logger.Infow("token_batch_created",
		"promotion_id", promotion.ID,
		"batch_no", batch.BatchNo,
		"requested", input.Quantity,
		"created", created,
	)
	return &GenerateTokensResult{Batch: batch, Requested: input.Quantity, Created: created}, nil
}

// TokenValidation 落地页券码校验结果
type TokenValidation struct {
	Token     *models.Token     `json:"token"`
	Promotion *models.Promotion `json:"promotion"`
}

// ValidateToken 只读校验券码是否可用
func (s *TokenService) ValidateToken(code string) (*TokenValidation, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, ErrPlayFailed
	}
	token, err := s.tokenRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, rejectPlay(models.PlayRejectTokenNotFound)
	}
	if token.Status != models.TokenStatusAvailable {
		return nil, rejectPlay(models.PlayRejectTokenUsed)
	}
	promotion, err := s.promotionRepo.GetByID(token.PromotionID)
	if err != nil {
		return nil, err
	}
	if !promotion.IsOpenAt(s.now()) {
		return nil, rejectPlay(models.PlayRejectPromotionInactive)
	}
	return &TokenValidation{Token: token, Promotion: promotion}, nil
}

// BuildPlayURL 生成券码对应的参与链接
func (s *TokenService) BuildPlayURL(code string) string {
	base := ""
	if s != nil {
		base = s.frontendURL
	}
	return base + "/play?token=" + url.QueryEscape(code)
}

// TokenExport 导出结果
type TokenExport struct {
	Filename    string
	ContentType string
	Body        []byte
	Count       int
}

// ExportTokens 导出券码与参与链接，供印刷使用
func (s *TokenService) ExportTokens(promotionID, batchID uint, format string) (*TokenExport, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, ErrTokenCreateFailed
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = constants.ExportFormatCSV
	}
	if format != constants.ExportFormatCSV && format != constants.ExportFormatTXT {
		return nil, ErrExportFormat
	}
	promotion, err := s.promotionRepo.GetByID(promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	if batchID > 0 {
		batch, err := s.tokenRepo.GetBatchByID(batchID)
		if err != nil {
			return nil, err
		}
		if batch == nil || batch.PromotionID != promotionID {
			return nil, ErrTokenBatchNotFound
		}
	}
	tokens, err := s.tokenRepo.ListForExport(promotionID, batchID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case constants.ExportFormatTXT:
		for _, token := range tokens {
			buf.WriteString(token.Code)
			buf.WriteByte('\t')
			buf.WriteString(s.BuildPlayURL(token.Code))
			buf.WriteByte('\n')
		}
	default:
		writer := csv.NewWriter(&buf)
		if err := writer.Write([]string{"code", "url", "status"}); err != nil {
			return nil, err
		}
		for _, token := range tokens {
			if err := writer.Write([]string{token.Code, s.BuildPlayURL(token.Code), token.Status}); err != nil {
				return nil, err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, err
		}
	}

	filename := fmt.Sprintf("tokens_%d", promotionID)
	if batchID > 0 {
		filename = fmt.Sprintf("%s_batch_%d", filename, batchID)
	}
	contentType := "text/csv; charset=utf-8"
	if format == constants.ExportFormatTXT {
		contentType = "text/plain; charset=utf-8"
	}
	return &TokenExport{
		Filename:    filename + "." + format,
		ContentType: contentType,
		Body:        buf.Bytes(),
		Count:       len(tokens),
	}, nil
}

// ListTokens 券码列表
func (s *TokenService) ListTokens(filter repository.TokenListFilter) ([]models.Token, int64, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, 0, errors.New("token service unavailable")
	}
	return s.tokenRepo.List(filter)
}

// ListBatches 券码批次列表
func (s *TokenService) ListBatches(promotionID uint) ([]models.TokenBatch, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, errors.New("token service unavailable")
	}
	return s.tokenRepo.ListBatches(promotionID)
}
