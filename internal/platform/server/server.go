package server

import (
	"context"

	"github.com/labstack/echo/v4"

	adaptermiddleware "farmaid-portal/internal/adapters/http/middleware"
	"farmaid-portal/internal/application"
	"farmaid-portal/internal/infrastructure/auth"
	"farmaid-portal/internal/infrastructure/config"
	"farmaid-portal/internal/infrastructure/dynamodb"
	httpiface "farmaid-portal/internal/interfaces/http"
	"farmaid-portal/internal/ports"
)

// Build wires repositories, services and handlers into the portal
// router. Shared by the standalone HTTP binary and the lambda entry.
func Build(ctx context.Context, cfg config.Config, logger ports.Logger) (*echo.Echo, error) {
	client, err := dynamodb.NewClient(ctx, cfg.Region, cfg.TableName)
	if err != nil {
		return nil, err
	}
	adminRepo := dynamodb.NewAdminRepository(client)
	cropRepo := dynamodb.NewCropRepository(client)
	schemeRepo := dynamodb.NewSchemeRepository(client)
	grantRepo := dynamodb.NewGrantRepository(client)

	roleSvc := application.NewRoleService(adminRepo, logger)
	cropSvc := application.NewCropService(cropRepo, logger)
	schemeSvc := application.NewSchemeService(schemeRepo, logger)
	grantSvc := application.NewGrantService(grantRepo, schemeRepo, logger)
	statsSvc := application.NewStatsService(cropRepo, schemeRepo, grantRepo, logger)

	var verify echo.MiddlewareFunc
	if cfg.AuthMode == config.ModeCognito {
		verify = auth.NewCognitoMiddleware(cfg.UserPoolID, cfg.Region, cfg.AppClientID).Handler
	}
	authMiddleware, err := adaptermiddleware.AuthMiddleware(cfg.AuthMode, verify)
	if err != nil {
		return nil, err
	}
	mw := httpiface.Middleware{
		Auth:          authMiddleware,
		XRay:          adaptermiddleware.XRayMiddleware("farmaid-http"),
		RequestLogger: adaptermiddleware.RequestLogger(logger),
	}

	return httpiface.NewRouter(
		httpiface.NewSessionHandler(roleSvc),
		httpiface.NewCropsHandler(cropSvc, roleSvc),
		httpiface.NewSchemesHandler(schemeSvc, roleSvc),
		httpiface.NewGrantsHandler(grantSvc, roleSvc),
		httpiface.NewStatsHandler(statsSvc, roleSvc),
		mw,
	), nil
}
