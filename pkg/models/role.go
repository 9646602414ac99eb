package models

// Role ids follow the seed order in the initial migration.
const (
	RoleUser       = 1
	RoleSilver     = 2
	RoleGold       = 3
	RolePremium    = 4
	RoleSuperAdmin = 5
)

type Role struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	MaxClubs   int     `json:"max_clubs"`
	MaxPlayers int     `json:"max_players"`
	Cost       float64 `json:"cost"`
}
