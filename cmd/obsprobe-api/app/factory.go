package app

import (
	"github.com/gin-gonic/gin"

	"github.com/neutree-ai/obsprobe/cmd/obsprobe-api/app/config"
	"github.com/neutree-ai/obsprobe/internal/middleware"
	"github.com/neutree-ai/obsprobe/internal/routes/onboard"
	"github.com/neutree-ai/obsprobe/internal/routes/system"
)

type RouteFactory func(deps *RouteOptions)

type RouteOptions struct {
	Config      *config.APIConfig
	Group       *gin.RouterGroup
	Middlewares []gin.HandlerFunc
}

type OnboardRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *onboard.Dependencies)

func OnboardRouteFactory(register OnboardRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, &onboard.Dependencies{
			Resolver:  deps.Config.Resolver,
			Activator: deps.Config.Activator,
			Storage:   deps.Config.Storage,
		})
	}
}

type SystemRegisterFunc func(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *system.Dependencies)

func SystemRouteFactory(register SystemRegisterFunc) RouteFactory {
	return func(deps *RouteOptions) {
		register(deps.Group, deps.Middlewares, &system.Dependencies{
			PrometheusURL: deps.Config.PrometheusURL,
			StorageType:   deps.Config.StorageType,
			ResolverMode:  deps.Config.ResolverMode,
		})
	}
}

type MiddlewareOptions struct {
	Config *config.APIConfig
}

type MiddlewareRegisterFunc func(deps middleware.Dependencies) gin.HandlerFunc

type MiddlewareFactory func(deps *MiddlewareOptions) gin.HandlerFunc

func CommonMiddlewareFactory(register MiddlewareRegisterFunc) MiddlewareFactory {
	return func(deps *MiddlewareOptions) gin.HandlerFunc {
		return register(middleware.Dependencies{
			Config: deps.Config.AuthConfig,
		})
	}
}

func RequestIDMiddlewareFactory(*MiddlewareOptions) gin.HandlerFunc {
	return middleware.RequestID()
}
