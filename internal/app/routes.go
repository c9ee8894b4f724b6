package app

import (
	"net/http"

	"promotions/internal/auth"
	"promotions/internal/cache"
	"promotions/internal/config"
	"promotions/internal/handlers"
	"promotions/internal/repo"
	"promotions/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine, backed by Postgres and the
// Redis list cache.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	promoRepo := repo.NewPGPromotionRepo(db)
	promoCache := cache.NewPromotionCache(rdb, cfg.Redis.DefaultTTL.Duration())
	svc := service.NewPromotionService(promoRepo, promoCache)
	h := handlers.NewPromotionHandler(svc, cfg.App.TestMode())
	Register(r, cfg, h)
}

// Register wires the route table onto the engine. Split from Setup so tests
// can mount the handlers over an in-memory repository.
func Register(r *gin.Engine, cfg config.Config, h *handlers.PromotionHandler) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	requireKey := auth.RequireAPIKey(cfg.Auth.APIKey)

	r.GET("/promotions", h.List)
	r.GET("/promotions/:id", h.Get)
	r.POST("/promotions", requireKey, h.Create)
	r.PUT("/promotions/:id", requireKey, h.Update)
	r.DELETE("/promotions/:id", requireKey, h.Delete)
	r.PUT("/promotions/:id/activate", requireKey, h.Activate)
	r.DELETE("/promotions", requireKey, h.RemoveAll)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Promotion REST API Service",
			"version":     cfg.App.Version,
			"description": "RESTful service for managing e-commerce promotions: list, view, create, update and delete promotions.",
			"paths": gin.H{
				"list_promotions":  gin.H{"method": "GET", "url": "/promotions"},
				"get_promotion":    gin.H{"method": "GET", "url": "/promotions/{id}"},
				"create_promotion": gin.H{"method": "POST", "url": "/promotions"},
				"update_promotion": gin.H{"method": "PUT", "url": "/promotions/{id}"},
				"delete_promotion": gin.H{"method": "DELETE", "url": "/promotions/{id}"},
				"toggle_promotion": gin.H{"method": "PUT", "url": "/promotions/{id}/activate"},
			},
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
