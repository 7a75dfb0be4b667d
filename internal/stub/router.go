package stub

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	corsmiddleware "github.com/arkiva/doc-registry/pkg/middleware/cors"
	reqidmiddleware "github.com/arkiva/doc-registry/pkg/middleware/requestid"
)

// NewRouter wires the stub handlers onto a Gin engine with the middleware
// stack the real registry fronted its API with.
func NewRouter(store *Store, logger *zap.Logger, allowedOrigins []string) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(store, validator.New())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(requestLogger(logger))
	r.Use(corsmiddleware.New(allowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	doc := r.Group("/document")
	{
		doc.GET("/paginated", handler.ListPaginated)
		doc.GET("", handler.ListAll)
		doc.POST("/", handler.Create)
		doc.PUT("/:id", handler.Update)
		doc.DELETE("/:id", handler.Delete)
		doc.POST("/bulk-update-status", handler.BulkUpdateStatus)
		doc.POST("/bulk-delete", handler.BulkDelete)
		doc.GET("/count_status/:departmentId", handler.CountStatus)
		doc.GET("/download/:id", handler.Download)
	}

	r.GET("/department", handler.Departments)
	r.GET("/department/:id/document-types", handler.DocumentTypes)
	r.GET("/users/admin/:username", handler.AdminCheck)

	return r
}

func requestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if reqID := reqidmiddleware.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		l.Info("http_request", fields...)
	}
}
