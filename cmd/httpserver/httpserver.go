// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-wallet/internal/accountrepo"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/internal/sessiondelivery"
	"github.com/go-petr/pet-wallet/internal/sessionrepo"
	"github.com/go-petr/pet-wallet/internal/sessionservice"
	"github.com/go-petr/pet-wallet/internal/transactiondelivery"
	"github.com/go-petr/pet-wallet/internal/transactionrepo"
	"github.com/go-petr/pet-wallet/internal/transactionservice"
	"github.com/go-petr/pet-wallet/internal/userdelivery"
	"github.com/go-petr/pet-wallet/internal/userrepo"
	"github.com/go-petr/pet-wallet/internal/userservice"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
)

// Server holds the handlers router and configuration.
type Server struct {
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	rates, err := exchangeRates(config)
	if err != nil {
		return nil, err
	}

	starting, err := startingBalance(config)
	if err != nil {
		return nil, err
	}

	userRepo := userrepo.NewRepoMem()
	accountRepo := accountrepo.NewRepoMem()
	transactionRepo := transactionrepo.NewRepoMem()
	sessionRepo := sessionrepo.NewRepoMem()

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo, accountRepo, starting)
	transactionService := transactionservice.New(accountRepo, transactionRepo, rates)
	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)

	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	userHandler := userdelivery.NewHandler(userService, sessionService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/users/verify", userHandler.Verify)
	engine.POST("/users/forgot-password", userHandler.ResetPassword)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.POST("/transactions", transactionHandler.Create)
	authRoutes.POST("/transactions/:id/resolve", transactionHandler.Resolve)
	authRoutes.GET("/transactions", transactionHandler.ListHistory)
	authRoutes.GET("/balances", transactionHandler.GetBalance)
	authRoutes.PATCH("/users/online", userHandler.SetOnline)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		Engine: engine,
		Config: config,
	}

	return server, nil
}

func exchangeRates(config configpkg.Config) (currencypkg.RateTable, error) {
	usd, err := decimal.NewFromString(config.ExchangeRateUSD)
	if err != nil {
		return nil, errors.New("invalid USD exchange rate")
	}

	rub, err := decimal.NewFromString(config.ExchangeRateRUB)
	if err != nil {
		return nil, errors.New("invalid RUB exchange rate")
	}

	return currencypkg.RateTable{
		currencypkg.USD: usd,
		currencypkg.RUB: rub,
	}, nil
}

func startingBalance(config configpkg.Config) (domain.Balance, error) {
	rub, err := decimal.NewFromString(config.StartingBalanceRUB)
	if err != nil {
		return domain.Balance{}, errors.New("invalid RUB starting balance")
	}

	usd, err := decimal.NewFromString(config.StartingBalanceUSD)
	if err != nil {
		return domain.Balance{}, errors.New("invalid USD starting balance")
	}

	return domain.Balance{RUB: rub, USD: usd}, nil
}
