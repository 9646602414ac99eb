package services

import (
	"database/sql"
	"testing"

	"goalgg/pkg/cache"
	"goalgg/pkg/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *cache.Redis {
	t.Helper()
	m := miniredis.RunT(t)
	return cache.NewFromClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users     map[int]models.User
	roles     map[int]models.Role
	owned     map[int]int
	nextID    int
	listCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[int]models.User),
		owned:  make(map[int]int),
		nextID: 1,
		roles: map[int]models.Role{
			models.RoleUser:       {ID: models.RoleUser, Name: "user", MaxClubs: 0, MaxPlayers: 0},
			models.RoleSilver:     {ID: models.RoleSilver, Name: "silver", MaxClubs: 1, MaxPlayers: 25},
			models.RoleGold:       {ID: models.RoleGold, Name: "gold", MaxClubs: 3, MaxPlayers: 30},
			models.RolePremium:    {ID: models.RolePremium, Name: "premium", MaxClubs: 5, MaxPlayers: 100},
			models.RoleSuperAdmin: {ID: models.RoleSuperAdmin, Name: "super_admin", MaxClubs: 1000, MaxPlayers: 1000},
		},
	}
}

func (f *fakeUserRepo) Create(u *models.User) error {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(id int) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (f *fakeUserRepo) EmailExists(email string) (bool, error) {
	_, err := f.GetByEmail(email)
	return err == nil, nil
}

func (f *fakeUserRepo) PhoneExists(number string) (bool, error) {
	for _, u := range f.users {
		if u.Phone.Number != nil && *u.Phone.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) List(skip, limit int) ([]models.User, error) {
	f.listCalls++
	var out []models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(userID, roleID int) error {
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.RoleID = roleID
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) UpdateLocation(userID int, lat, lng float64) error {
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.Location = models.Location{Lat: &lat, Lng: &lng}
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) OwnedClubCount(userID int) (int, error) {
	return f.owned[userID], nil
}

func (f *fakeUserRepo) GetRole(roleID int) (models.Role, error) {
	r, ok := f.roles[roleID]
	if !ok {
		return models.Role{}, sql.ErrNoRows
	}
	return r, nil
}

// fakeClubRepo is an in-memory ClubRepository.
type fakeClubRepo struct {
	clubs       map[int]models.Club
	members     map[int][]int // club id -> user ids
	pending     map[int][]int
	nextID      int
	searchCalls int
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{
		clubs:   make(map[int]models.Club),
		members: make(map[int][]int),
		pending: make(map[int][]int),
		nextID:  1,
	}
}

func (f *fakeClubRepo) CreateWithAdmin(club *models.Club, member *models.Member) error {
	club.ID = f.nextID
	f.nextID++
	f.clubs[club.ID] = *club
	f.members[club.ID] = []int{member.UserID}
	return nil
}

func (f *fakeClubRepo) GetByID(id int) (models.Club, error) {
	c, ok := f.clubs[id]
	if !ok {
		return models.Club{}, sql.ErrNoRows
	}
	c.MembersCount = len(f.members[id])
	return c, nil
}

func (f *fakeClubRepo) Search(models.ClubSearch) ([]models.Club, error) {
	f.searchCalls++
	var out []models.Club
	for _, c := range f.clubs {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClubRepo) OwnedBy(userID int) ([]models.Club, error) {
	var out []models.Club
	for _, c := range f.clubs {
		if c.AdminID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClubRepo) MemberClubs(userID int) ([]models.Club, error) {
	var out []models.Club
	for id, users := range f.members {
		for _, u := range users {
			if u == userID {
				out = append(out, f.clubs[id])
			}
		}
	}
	return out, nil
}

func (f *fakeClubRepo) MemberExists(clubID, userID int) (bool, error) {
	for _, u := range f.members[clubID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClubRepo) MemberCount(clubID int) (int, error) {
	return len(f.members[clubID]), nil
}

func (f *fakeClubRepo) AddMember(m *models.Member) error {
	f.members[m.ClubID] = append(f.members[m.ClubID], m.UserID)
	return nil
}

func (f *fakeClubRepo) RemoveMember(clubID, userID int) error {
	users := f.members[clubID]
	for i, u := range users {
		if u == userID {
			f.members[clubID] = append(users[:i], users[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeClubRepo) RemoveCaptain(clubID, userID int) error {
	return nil
}

func (f *fakeClubRepo) HasPendingRequest(clubID, userID int) (bool, error) {
	for _, u := range f.pending[clubID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClubRepo) AddPendingRequest(clubID, userID int) error {
	f.pending[clubID] = append(f.pending[clubID], userID)
	return nil
}

func (f *fakeClubRepo) ApproveRequest(clubID, userID int, m *models.Member) error {
	pending := f.pending[clubID]
	for i, u := range pending {
		if u == userID {
			f.pending[clubID] = append(pending[:i], pending[i+1:]...)
			m.ClubID = clubID
			m.UserID = userID
			f.members[clubID] = append(f.members[clubID], userID)
			return nil
		}
	}
	return sql.ErrNoRows
}
