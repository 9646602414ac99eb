package models

import "time"

type Phone struct {
	Prefix *string `json:"prefix"`
	Number *string `json:"number"`
}

type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type User struct {
	ID            int        `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	Phone         Phone      `json:"phone"`
	Image         string     `json:"image"`
	YearOfBirth   int        `json:"year_of_birth"`
	City          string     `json:"city,omitempty"`
	Country       string     `json:"country,omitempty"`
	SportCategory string     `json:"sport_category"`
	Positions     []string   `json:"positions"`
	AvgSkill      float64    `json:"avg_skill_rating"`
	Location      Location   `json:"location"`
	RoleID        int        `json:"role_id"`
	TotalGames    int        `json:"total_games"`
	TotalPoints   int        `json:"total_points"`
	TotalAssists  int        `json:"total_assists"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type RegisterRequest struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Phone         Phone    `json:"phone"`
	SportCategory string   `json:"sport_category"`
	YearOfBirth   int      `json:"year_of_birth"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Positions     []string `json:"positions"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
