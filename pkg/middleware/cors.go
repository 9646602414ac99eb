package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSConfig reads the allowed origins from CORS_ORIGINS, defaulting to the
// local frontend dev server.
func CORSConfig() cors.Config {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: "POST,GET,DELETE,PUT,OPTIONS",
		AllowHeaders: "Content-Type,Cache-Control,Pragma,Authorization",
	}
}
