package models

import "time"

// Club status values.
const (
	ClubActive   = "active"
	ClubInactive = "inactive"
	ClubFull     = "full"
)

type ClubLocation struct {
	Country *string  `json:"country"`
	City    *string  `json:"city"`
	Address *string  `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type Club struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Image           string       `json:"image"`
	AdminID         int          `json:"admin_id"`
	Captains        []int64      `json:"captains"`
	SportCategory   string       `json:"sport_category"`
	IsPrivate       bool         `json:"is_private"`
	MaxPlayers      int          `json:"max_players"`
	Status          string       `json:"status"`
	Location        ClubLocation `json:"location"`
	PendingRequests []int64      `json:"pending_requests"`
	MembersCount    int          `json:"members_count"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       *time.Time   `json:"updated_at,omitempty"`
}

type CreateClubRequest struct {
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	SportCategory string       `json:"sport_category"`
	IsPrivate     bool         `json:"is_private"`
	Location      ClubLocation `json:"location"`
}

// ClubSearch are the filters accepted by the search endpoint.
type ClubSearch struct {
	Name          string
	SportCategory string
	IsPrivate     *bool
	SortBy        string
	Skip          int
	Limit         int
	UserLat       *float64
	UserLng       *float64
}

type MyClubs struct {
	OwnedClubs  []Club `json:"owned_clubs"`
	MemberClubs []Club `json:"member_clubs"`
	TotalClubs  int    `json:"total_clubs"`
}
