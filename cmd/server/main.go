package main

import (
	"log"
	"os"
	"strings"
	"time"

	"goalgg/pkg/cache"
	"goalgg/pkg/database"
	"goalgg/pkg/handlers"
	"goalgg/pkg/middleware"
	"goalgg/pkg/repository"
	"goalgg/pkg/server"
	"goalgg/pkg/services"
	"goalgg/pkg/sse"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func main() {
	db := database.Connect()
	defer db.Close()

	// Serverless PG: keep pool small, connections short-lived
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	database.Migrate(db)

	log.Println("[GOALGG] Connecting to Redis...")
	redis := cache.New()
	defer redis.Close()
	log.Println("[GOALGG] Redis connected")

	hub := sse.NewHub()

	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)

	userSvc := services.NewUserService(userRepo, redis)
	clubSvc := services.NewClubService(clubRepo, userRepo, redis, hub)

	users := handlers.NewUsers(userSvc)
	clubs := handlers.NewClubs(clubSvc)
	stream := handlers.NewStream(hub)
	location := handlers.NewLocation(userSvc)

	app := server.NewApp("goalgg")

	usersGroup := app.Group("/users")
	usersGroup.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), users.Register)

	usersGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), users.Login)

	usersPriv := usersGroup.Group("", middleware.Auth)
	usersPriv.Get("/", users.List)
	usersPriv.Put("/role", users.ChangeRole)
	usersPriv.Get("/:id", users.Get)

	clubsGroup := app.Group("/clubs", middleware.Auth)
	clubsGroup.Post("/", clubs.Create)
	clubsGroup.Get("/search", clubs.Search)
	clubsGroup.Get("/my-clubs", clubs.MyClubs)
	clubsGroup.Get("/notifications/stream", stream.Notifications)
	clubsGroup.Get("/:id", clubs.Get)
	clubsGroup.Post("/:id/join", clubs.Join)
	clubsGroup.Post("/:id/accept-request/:user_id", clubs.AcceptRequest)
	clubsGroup.Delete("/:id/leave", clubs.Leave)

	app.Get("/hub/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"connections":      hub.ConnectionCount(),
			"connected_users":  hub.ConnectedUserIDs(),
			"location_sockets": location.ActiveConnections(),
		})
	})

	app.Use("/ws", parseWSToken)
	app.Get("/ws/location", websocket.New(location.Handle))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	addr := "0.0.0.0:" + port
	log.Printf("[GOALGG] SSE stream: /clubs/notifications/stream")
	log.Printf("[GOALGG] WebSocket: /ws/location")
	log.Printf("[GOALGG] Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("[GOALGG] Failed to start: %v", err)
	}
}

// parseWSToken pulls the JWT from the query string or the Authorization
// header before the websocket upgrade, since browsers cannot set headers
// on websocket connections.
func parseWSToken(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = authHeader[7:]
		}
	}

	userID := 0
	if tokenStr != "" {
		userID = middleware.ParseToken(tokenStr)
	}

	c.Locals("user_id", userID)
	return c.Next()
}
