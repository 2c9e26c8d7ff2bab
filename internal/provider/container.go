package provider

import (
	"github.com/luckyscan/internal/authz"
	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/gender"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/queue"
	"github.com/luckyscan/internal/repository"
	"github.com/luckyscan/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StaffUserRepo       repository.StaffUserRepository
	PromotionRepo       repository.PromotionRepository
	PrizeTypeRepo       repository.PrizeTypeRepository
	TokenRepo           repository.TokenRepository
	CustomerRepo        repository.CustomerRepository
	PlayRepo            repository.PlayRepository
	PrizeAssignmentRepo repository.PrizeAssignmentRepository
	DashboardRepo       repository.DashboardRepository

	// Services
	GenderClassifier      *gender.NameListClassifier
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	StaffUserService      *service.StaffUserService
	CaptchaService        *service.CaptchaService
	PromotionAdminService *service.PromotionAdminService
	TokenService          *service.TokenService
	CustomerService       *service.CustomerService
	PlayService           *service.PlayService
	LeaderboardService    *service.LeaderboardService
	PrizeRedeemService    *service.PrizeRedeemService
	DashboardService      *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StaffUserRepo = repository.NewStaffUserRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.PrizeTypeRepo = repository.NewPrizeTypeRepository(db)
	c.TokenRepo = repository.NewTokenRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.PlayRepo = repository.NewPlayRepository(db)
	c.PrizeAssignmentRepo = repository.NewPrizeAssignmentRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.GenderClassifier = gender.NewNameListClassifier()
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.StaffUserRepo)
	c.StaffUserService = service.NewStaffUserService(c.StaffUserRepo, c.AuthService, c.AuthzService)
	c.PromotionAdminService = service.NewPromotionAdminService(c.PromotionRepo, c.PrizeTypeRepo, c.TokenRepo, c.CustomerRepo, c.PlayRepo, c.PrizeAssignmentRepo)
	c.TokenService = service.NewTokenService(c.TokenRepo, c.PromotionRepo, c.Config)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.PromotionRepo, c.GenderClassifier)
	c.PlayService = service.NewPlayService(c.PromotionRepo, c.PrizeTypeRepo, c.TokenRepo, c.CustomerRepo, c.PlayRepo, c.PrizeAssignmentRepo, c.GenderClassifier, c.QueueClient, c.Config.Lottery)
	c.LeaderboardService = service.NewLeaderboardService(c.CustomerRepo, c.Config.Lottery)
	c.PrizeRedeemService = service.NewPrizeRedeemService(c.PrizeAssignmentRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.PromotionRepo, c.Config.App.Timezone)
}

// SyncStaffRoles 将已有账号角色同步到权限策略
func (c *Container) SyncStaffRoles() error {
	users, err := c.StaffUserRepo.List()
	if err != nil {
		return err
	}
	return c.AuthzService.SyncStaffRoles(users)
}
