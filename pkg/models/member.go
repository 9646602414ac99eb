package models

import "time"

type Member struct {
	ID           int       `json:"id"`
	ClubID       int       `json:"club_id"`
	UserID       int       `json:"user_id"`
	TotalGoals   int       `json:"total_goals"`
	TotalAssists int       `json:"total_assists"`
	TotalGames   int       `json:"total_games"`
	SkillRating  float64   `json:"skill_rating"`
	Positions    []string  `json:"positions"`
	CreatedAt    time.Time `json:"created_at"`
}
