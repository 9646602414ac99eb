package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"goalgg/pkg/cache"
	"goalgg/pkg/models"
	"goalgg/pkg/repository"
	"goalgg/pkg/sse"
)

var (
	ErrClubNotFound     = errors.New("club not found")
	ErrMaxClubsReached  = errors.New("maximum clubs allowed for your role reached")
	ErrAlreadyMember    = errors.New("user is already a member of this club")
	ErrClubFull         = errors.New("club has reached maximum members limit")
	ErrNotMember        = errors.New("user is not a member of this club")
	ErrNotAdmin         = errors.New("only the club admin may do this")
	ErrAdminCannotLeave = errors.New("club admin cannot leave the club")
	ErrNoPendingRequest = errors.New("no pending request for this user")
	ErrLocationRequired = errors.New("user location is required for distance sorting")
)

// JoinResult mirrors the join endpoint's response body: exactly one of the
// two fields is set.
type JoinResult struct {
	RequestStatus    string `json:"request_status,omitempty"`
	MembershipStatus string `json:"membership_status,omitempty"`
}

type ClubService interface {
	Create(userID int, req models.CreateClubRequest) (models.Club, error)
	Search(userID int, f models.ClubSearch) ([]models.Club, error)
	MyClubs(userID int) (models.MyClubs, error)
	Get(clubID int) (models.Club, error)
	Join(clubID, userID int) (JoinResult, error)
	AcceptRequest(clubID, adminID, requestUserID int) (models.Club, error)
	Leave(clubID, userID, targetUserID int) error
}

type clubService struct {
	repo  repository.ClubRepository
	users repository.UserRepository
	redis *cache.Redis
	hub   *sse.Hub
}

func NewClubService(repo repository.ClubRepository, users repository.UserRepository, redis *cache.Redis, hub *sse.Hub) ClubService {
	return &clubService{repo: repo, users: users, redis: redis, hub: hub}
}

func (s *clubService) Create(userID int, req models.CreateClubRequest) (models.Club, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return models.Club{}, err
	}
	role, err := s.users.GetRole(user.RoleID)
	if err != nil {
		return models.Club{}, err
	}

	owned, err := s.users.OwnedClubCount(userID)
	if err != nil {
		return models.Club{}, err
	}
	if owned >= role.MaxClubs {
		return models.Club{}, ErrMaxClubsReached
	}

	club := models.Club{
		Name:          req.Name,
		Description:   req.Description,
		Image:         req.Image,
		AdminID:       userID,
		Captains:      []int64{int64(userID)},
		SportCategory: req.SportCategory,
		IsPrivate:     req.IsPrivate,
		MaxPlayers:    role.MaxPlayers,
		Status:        models.ClubActive,
		Location:      req.Location,
	}
	member := models.Member{
		UserID:      userID,
		SkillRating: user.AvgSkill,
		Positions:   user.Positions,
	}
	if err := s.repo.CreateWithAdmin(&club, &member); err != nil {
		return models.Club{}, err
	}

	s.redis.DelPattern("clubs:*")
	log.Printf("[CLUBS] created club %q (id=%d) admin=%d", club.Name, club.ID, userID)
	return club, nil
}

func (s *clubService) Search(userID int, f models.ClubSearch) ([]models.Club, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 100
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	if f.SortBy == "distance" {
		user, err := s.users.GetByID(userID)
		if err != nil {
			return nil, err
		}
		if user.Location.Lat == nil || user.Location.Lng == nil {
			return nil, ErrLocationRequired
		}
		f.UserLat = user.Location.Lat
		f.UserLng = user.Location.Lng
	}

	// pointer filter must go into the key by value, not address
	priv := "any"
	if f.IsPrivate != nil {
		priv = strconv.FormatBool(*f.IsPrivate)
	}
	cacheKey := fmt.Sprintf("clubs:search:%s:%s:%s:%s:%d:%d:u%d",
		f.Name, f.SportCategory, priv, f.SortBy, f.Skip, f.Limit, userID)
	var cached []models.Club
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	clubs, err := s.repo.Search(f)
	if err != nil {
		return nil, err
	}

	s.redis.Set(cacheKey, clubs, 15*time.Second)
	return clubs, nil
}

func (s *clubService) MyClubs(userID int) (models.MyClubs, error) {
	owned, err := s.repo.OwnedBy(userID)
	if err != nil {
		return models.MyClubs{}, err
	}
	member, err := s.repo.MemberClubs(userID)
	if err != nil {
		return models.MyClubs{}, err
	}

	ownedIDs := make(map[int]bool, len(owned))
	for _, c := range owned {
		ownedIDs[c.ID] = true
	}
	filtered := make([]models.Club, 0, len(member))
	for _, c := range member {
		if !ownedIDs[c.ID] {
			filtered = append(filtered, c)
		}
	}

	return models.MyClubs{
		OwnedClubs:  owned,
		MemberClubs: filtered,
		TotalClubs:  len(owned) + len(filtered),
	}, nil
}

func (s *clubService) Get(clubID int) (models.Club, error) {
	club, err := s.repo.GetByID(clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Club{}, ErrClubNotFound
		}
		return models.Club{}, err
	}
	return club, nil
}

// Join adds the user to a public club, or files a pending request on a
// private one. Notifications go out only after the write committed and are
// best-effort.
func (s *clubService) Join(clubID, userID int) (JoinResult, error) {
	club, err := s.Get(clubID)
	if err != nil {
		return JoinResult{}, err
	}

	if exists, err := s.repo.MemberExists(clubID, userID); err != nil {
		return JoinResult{}, err
	} else if exists {
		return JoinResult{}, ErrAlreadyMember
	}

	count, err := s.repo.MemberCount(clubID)
	if err != nil {
		return JoinResult{}, err
	}
	if count >= club.MaxPlayers {
		return JoinResult{}, ErrClubFull
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return JoinResult{}, err
	}

	if club.IsPrivate {
		if pending, err := s.repo.HasPendingRequest(clubID, userID); err != nil {
			return JoinResult{}, err
		} else if pending {
			return JoinResult{RequestStatus: "already_pending"}, nil
		}

		if err := s.repo.AddPendingRequest(clubID, userID); err != nil {
			return JoinResult{}, err
		}
		s.redis.DelPattern("clubs:*")

		s.hub.Notify(club.AdminID, sse.NewClubJoinRequestEvent(clubID, userID, user.FullName(), club.AdminID))
		return JoinResult{RequestStatus: "pending"}, nil
	}

	member := models.Member{
		ClubID:      clubID,
		UserID:      userID,
		SkillRating: user.AvgSkill,
		Positions:   user.Positions,
	}
	if err := s.repo.AddMember(&member); err != nil {
		return JoinResult{}, err
	}
	s.redis.DelPattern("clubs:*")

	s.hub.Notify(club.AdminID, sse.NewMemberJoinedEvent(clubID, userID, user.FullName()))
	log.Printf("[CLUBS] user %d joined club %d", userID, clubID)
	return JoinResult{MembershipStatus: "joined"}, nil
}

// AcceptRequest lets the club admin turn a pending request into a member.
// The requester is notified of the approval, the admin's other devices of
// the new member.
func (s *clubService) AcceptRequest(clubID, adminID, requestUserID int) (models.Club, error) {
	club, err := s.Get(clubID)
	if err != nil {
		return models.Club{}, err
	}
	if club.AdminID != adminID {
		return models.Club{}, ErrNotAdmin
	}

	count, err := s.repo.MemberCount(clubID)
	if err != nil {
		return models.Club{}, err
	}
	if count >= club.MaxPlayers {
		return models.Club{}, ErrClubFull
	}

	requester, err := s.users.GetByID(requestUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Club{}, ErrUserNotFound
		}
		return models.Club{}, err
	}

	member := models.Member{
		SkillRating: requester.AvgSkill,
		Positions:   requester.Positions,
	}
	if err := s.repo.ApproveRequest(clubID, requestUserID, &member); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Club{}, ErrNoPendingRequest
		}
		return models.Club{}, err
	}
	s.redis.DelPattern("clubs:*")

	s.hub.Notify(requestUserID, sse.NewRequestApprovedEvent(clubID, requestUserID, requester.FullName()))
	s.hub.Notify(adminID, sse.NewMemberJoinedEvent(clubID, requestUserID, requester.FullName()))

	log.Printf("[CLUBS] request approved club=%d user=%d by admin=%d", clubID, requestUserID, adminID)
	return s.Get(clubID)
}

// Leave removes the caller from the club, or, when targetUserID is set and
// the caller is the admin, removes that user instead.
func (s *clubService) Leave(clubID, userID, targetUserID int) error {
	club, err := s.Get(clubID)
	if err != nil {
		return err
	}

	removed := userID
	if targetUserID != 0 && targetUserID != userID {
		if club.AdminID != userID {
			return ErrNotAdmin
		}
		removed = targetUserID
	}

	if club.AdminID == removed {
		return ErrAdminCannotLeave
	}

	if err := s.repo.RemoveMember(clubID, removed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotMember
		}
		return err
	}
	if err := s.repo.RemoveCaptain(clubID, removed); err != nil {
		return err
	}

	s.redis.DelPattern("clubs:*")
	log.Printf("[CLUBS] user %d left club %d", removed, clubID)
	return nil
}
