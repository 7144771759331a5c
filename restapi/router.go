package restapi

import (
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	"github.com/sharedcode/feedbench/restapi/docs"
)

// BasePath prefixes every feed route.
const BasePath = "/api/v1"

// NewRouter returns a gin engine serving the registry under BasePath behind token
// verification, plus the swagger UI at /swagger/.
func NewRouter(registry *Registry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	docs.SwaggerInfo.BasePath = BasePath

	v1 := router.Group(BasePath)
	registry.Mount(v1, VerifyHeaderToken)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return router
}
