package middleware

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func Secret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-key-change-in-production"
	}
	return secret
}

// CreateToken issues an access token carrying the user id as subject.
func CreateToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"exp": time.Now().Add(1000 * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(Secret()))
}

// ParseToken returns the user id from a token string, 0 when invalid.
func ParseToken(tokenStr string) int {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(Secret()), nil
	})
	if err != nil || !token.Valid {
		return 0
	}

	claims := token.Claims.(*jwt.MapClaims)
	sub, _ := (*claims)["sub"].(string)
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return 0
	}
	return userID
}

func Auth(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return c.Status(401).JSON(fiber.Map{"status": 401, "message": "Could not validate credentials", "data": nil})
	}

	userID := ParseToken(auth[7:])
	if userID <= 0 {
		return c.Status(401).JSON(fiber.Map{"status": 401, "message": "Could not validate credentials", "data": nil})
	}

	c.Locals("user_id", userID)
	return c.Next()
}
