package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/batchlinehq/batchline"
	"github.com/batchlinehq/batchline/api/middleware"
	"github.com/batchlinehq/batchline/config"
)

type Api struct {
	batchline *batchline.Batchline
	router    *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/transactions", a.CreateTransaction)
	router.GET("/transactions/:id", a.GetTransaction)
	router.GET("/transactions", a.GetAllTransactions)
	router.POST("/transactions/:id/transitions", a.TransitionTransaction)
	router.POST("/transactions/:id/delays", a.RecordDelay)

	router.POST("/reactors", a.CreateReactor)
	router.GET("/reactors/:id", a.GetReactor)
	router.GET("/reactors", a.GetAllReactors)

	router.POST("/products", a.CreateProduct)
	router.GET("/products", a.GetAllProducts)

	router.POST("/delay-reasons", a.CreateDelayReason)
	router.GET("/delay-reasons", a.GetAllDelayReasons)

	router.GET("/reports/utilization", a.GetUtilizationReport)
	return a.router
}

func NewAPI(b *batchline.Batchline) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.EnableTelemetry {
		r.Use(otelgin.Middleware(conf.ProjectName))
	}
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{batchline: b, router: r}
}
