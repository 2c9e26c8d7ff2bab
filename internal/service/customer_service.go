package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/luckyscan/internal/gender"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// CustomerService 参与者服务
type CustomerService struct {
	customerRepo  repository.CustomerRepository
	promotionRepo repository.PromotionRepository
	inferrer      *gender.NameListClassifier
	now           func() time.Time
}

// NewCustomerService 创建参与者服务
func NewCustomerService(customerRepo repository.CustomerRepository, promotionRepo repository.PromotionRepository, inferrer *gender.NameListClassifier) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		promotionRepo: promotionRepo,
		inferrer:      inferrer,
		now:           time.Now,
	}
}

// RegisterCustomerInput 注册参数
type RegisterCustomerInput struct {
	PromotionID      uint
	FirstName        string
	LastName         string
	Phone            string
	ConsentTerms     bool
	ConsentMarketing bool
}

// Validate 校验注册参数
func (in *RegisterCustomerInput) Validate() error {
	return validation.ValidateStruct(
		in,
		validation.Field(&in.PromotionID, validation.Required),
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 80)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 80)),
		validation.Field(&in.Phone, validation.Required, validation.Match(phonePattern)),
	)
}

// NormalizePhone 手机号只保留数字，保留开头的 +
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var builder strings.Builder
	for i, r := range raw {
		if r == '+' && i == 0 {
			builder.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Register 按 活动+手机号 注册或更新参与者
func (s *CustomerService) Register(input RegisterCustomerInput) (*models.Customer, error) {
	if s == nil || s.customerRepo == nil {
		return nil, errors.New("customer service unavailable")
	}
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Phone = NormalizePhone(input.Phone)
	if err := input.Validate(); err != nil {
		return nil, ErrCustomerInvalid
	}
	if !input.ConsentTerms {
		return nil, ErrConsentRequired
	}
	promotion, err := s.promotionRepo.GetByID(input.PromotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	now := s.now()
	if !promotion.IsOpenAt(now) {
		return nil, ErrPromotionInactive
	}

	inferred := s.inferrer.Infer(input.FirstName)
	existing, err := s.customerRepo.GetByPromotionPhone(input.PromotionID, input.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.FirstName = input.FirstName
		existing.LastName = input.LastName
		existing.Gender = string(inferred.Category)
		existing.GenderConfidence = string(inferred.Confidence)
		existing.ConsentTerms = true
		existing.ConsentTermsAt = &now
		existing.ConsentMarketing = input.ConsentMarketing
		if input.ConsentMarketing {
			existing.ConsentMarketingAt = &now
		}
		existing.UpdatedAt = now
		if err := s.customerRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	customer := &models.Customer{
		PromotionID:      input.PromotionID,
		Phone:            input.Phone,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Gender:           string(inferred.Category),
		GenderConfidence: string(inferred.Confidence),
		ConsentTerms:     true,
		ConsentTermsAt:   &now,
		ConsentMarketing: input.ConsentMarketing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.ConsentMarketing {
		customer.ConsentMarketingAt = &now
	}
	if err := s.customerRepo.Create(customer); err != nil {
		// 并发注册同一手机号时唯一索引冲突，回读已有记录
		again, getErr := s.customerRepo.GetByPromotionPhone(input.PromotionID, input.Phone)
		if getErr == nil && again != nil {
			return again, nil
		}
		return nil, err
	}
	logger.Infow("customer_registered",
		"promotion_id", customer.PromotionID,
		"customer_id", customer.ID,
		"gender", customer.Gender,
		"gender_confidence", customer.GenderConfidence,
	)
	return customer, nil
}

// GetCustomer 获取参与者
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// ListCustomers 参与者列表
func (s *CustomerService) ListCustomers(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.customerRepo.List(filter)
}
