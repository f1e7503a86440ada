package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/velora-agency/api/docs"
	v1 "github.com/velora-agency/api/internal/api/handler/v1"
	"github.com/velora-agency/api/internal/api/middleware"
	"github.com/velora-agency/api/internal/config"
	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository"
	"github.com/velora-agency/api/internal/repository/dao"
	"github.com/velora-agency/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	tiers, err := buildTierSchedule(conf.Loyalty)
	if err != nil {
		return nil, fmt.Errorf("api.buildTierSchedule -> %w", err)
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	membershipHandler := s.initMembershipHandler(db, tiers)
	consumptionHandler := s.initConsumptionHandler(db, tiers)
	ruleHandler := s.initRuleHandler(db)
	cardHandler := s.initCardHandler(db)
	s.MountHandlers(db, authHandler, membershipHandler, consumptionHandler, ruleHandler, cardHandler)

	return s, nil
}

func buildTierSchedule(conf *config.LoyaltyConfig) (domain.TierSchedule, error) {
	thresholds := make([]domain.TierThreshold, 0, len(conf.Tiers))
	for _, t := range conf.Tiers {
		thresholds = append(thresholds, domain.TierThreshold{
			MinPoints: t.MinPoints,
			Tier:      t.Tier,
		})
	}

	return domain.NewTierSchedule(thresholds)
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initMembershipHandler(db *gorm.DB, tiers domain.TierSchedule) *v1.MembershipHandler {
	membershipRepo := repository.NewMembershipRepository(dao.NewMembershipDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	membershipSvc := service.NewMembershipService(membershipRepo, userRepo, tiers)
	pointsSvc := s.initPointsService(db, tiers)
	cardSvc := service.NewCardService(repository.NewCardRepository(dao.NewCardDAO(db)), membershipRepo)
	handler := v1.NewMembershipHandler(membershipSvc, pointsSvc, cardSvc)

	return handler
}

func (s *Server) initConsumptionHandler(db *gorm.DB, tiers domain.TierSchedule) *v1.ConsumptionHandler {
	consumptionRepo := repository.NewConsumptionRepository(dao.NewConsumptionDAO(db))
	pointsSvc := s.initPointsService(db, tiers)
	svc := service.NewConsumptionService(consumptionRepo, pointsSvc)
	membershipRepo := repository.NewMembershipRepository(dao.NewMembershipDAO(db))
	cardSvc := service.NewCardService(repository.NewCardRepository(dao.NewCardDAO(db)), membershipRepo)
	handler := v1.NewConsumptionHandler(svc, cardSvc)

	return handler
}

func (s *Server) initPointsService(db *gorm.DB, tiers domain.TierSchedule) *service.PointsService {
	ruleRepo := repository.NewPointRuleRepository(dao.NewPointRuleDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	membershipRepo := repository.NewMembershipRepository(dao.NewMembershipDAO(db))

	return service.NewPointsService(ruleRepo, ledgerRepo, membershipRepo, tiers, s.Config.Loyalty.ConsumptionActionType)
}

func (s *Server) initRuleHandler(db *gorm.DB) *v1.RuleHandler {
	repo := repository.NewPointRuleRepository(dao.NewPointRuleDAO(db))
	svc := service.NewRuleService(repo)
	handler := v1.NewRuleHandler(svc)

	return handler
}

func (s *Server) initCardHandler(db *gorm.DB) *v1.CardHandler {
	cardRepo := repository.NewCardRepository(dao.NewCardDAO(db))
	membershipRepo := repository.NewMembershipRepository(dao.NewMembershipDAO(db))
	svc := service.NewCardService(cardRepo, membershipRepo)
	handler := v1.NewCardHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(db *gorm.DB, authHandler *v1.AuthHandler, membershipHandler *v1.MembershipHandler, consumptionHandler *v1.ConsumptionHandler, ruleHandler *v1.RuleHandler, cardHandler *v1.CardHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	staff := s.Router.Group(basePath, verifyJWT)
	{
		staff.GET("/memberships/:userID", membershipHandler.HandleGetMembership)
		staff.GET("/memberships/:userID/ledger", membershipHandler.HandleGetLedger)
		staff.GET("/memberships/:userID/cards", cardHandler.HandleGetCards)
		staff.POST("/consumptions", consumptionHandler.HandleRecordConsumption)
		staff.GET("/memberships/:userID/consumptions", consumptionHandler.HandleGetConsumptions)
		staff.GET("/rules", ruleHandler.HandleListRules)
		staff.GET("/rules/:actionType", ruleHandler.HandleGetRule)
	}

	userSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	admin := s.Router.Group(basePath, verifyJWT, middleware.RequireAdmin(userSvc))
	{
		admin.POST("/memberships", membershipHandler.HandleEnroll)
		admin.DELETE("/memberships/:userID", membershipHandler.HandleDeactivate)
		admin.POST("/memberships/:userID/adjustments", membershipHandler.HandleAdjustPoints)
		admin.POST("/memberships/:userID/reconcile", membershipHandler.HandleReconcile)
		admin.POST("/rules", ruleHandler.HandleCreateRule)
		admin.PUT("/rules/:actionType", ruleHandler.HandleUpdateRule)
		admin.POST("/cards", cardHandler.HandleRegisterCard)
		admin.DELETE("/cards/:uid", cardHandler.HandleDeactivateCard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Velora VIP API"
	docs.SwaggerInfo.Description = "VIP points ledger and tier engine."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
