package services

import (
	"testing"

	"goalgg/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*fakeUserRepo, UserService) {
	t.Helper()
	repo := newFakeUserRepo()
	return repo, NewUserService(repo, newTestCache(t))
}

func registerReq(email string) models.RegisterRequest {
	number := "85999990000"
	return models.RegisterRequest{
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     email,
		Password:  "s3cret-pass",
		Phone:     models.Phone{Number: &number},
	}
}

func TestRegister(t *testing.T) {
	_, svc := newUserFixture(t)

	user, err := svc.Register(registerReq("  Ana@Test.DEV "))
	require.NoError(t, err)
	assert.Equal(t, "ana@test.dev", user.Email, "email is normalized")
	assert.Equal(t, models.RoleUser, user.RoleID, "new accounts start as plain users")
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))
}

func TestRegisterValidation(t *testing.T) {
	_, svc := newUserFixture(t)

	_, err := svc.Register(registerReq("not-an-email"))
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(registerReq("ana@test.dev"))
	require.NoError(t, err)

	_, err = svc.Register(registerReq("ana@test.dev"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Same phone, different email.
	_, err = svc.Register(registerReq("bia@test.dev"))
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLogin(t *testing.T) {
	_, svc := newUserFixture(t)

	created, err := svc.Register(registerReq("ana@test.dev"))
	require.NoError(t, err)

	user, err := svc.Login("ANA@test.dev", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login("ana@test.dev", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Login("nobody@test.dev", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangeRoleCeilings(t *testing.T) {
	repo, svc := newUserFixture(t)

	u := addUser(repo, models.RoleGold, "Ana", "Lima")
	repo.owned[u.ID] = 2

	// Two owned clubs fit gold and above, but not silver or the base role.
	_, err := svc.ChangeRole(u.ID, models.RoleSilver)
	assert.ErrorIs(t, err, ErrRoleChangeDenied)
	_, err = svc.ChangeRole(u.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrRoleChangeDenied)

	updated, err := svc.ChangeRole(u.ID, models.RolePremium)
	require.NoError(t, err)
	assert.Equal(t, models.RolePremium, updated.RoleID)

	_, err = svc.ChangeRole(999, models.RoleSilver)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsesCache(t *testing.T) {
	repo, svc := newUserFixture(t)
	addUser(repo, models.RoleUser, "Ana", "Lima")

	_, err := svc.List(0, 10)
	require.NoError(t, err)
	_, err = svc.List(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "repeat list served from cache")

	// Registration invalidates the cached listing.
	_, err = svc.Register(registerReq("bia@test.dev"))
	require.NoError(t, err)
	_, err = svc.List(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestUpdateLocation(t *testing.T) {
	repo, svc := newUserFixture(t)
	u := addUser(repo, models.RoleUser, "Ana", "Lima")

	require.NoError(t, svc.UpdateLocation(u.ID, -3.73, -38.52))
	stored, err := svc.Get(u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Location.Lat)
	assert.InDelta(t, -3.73, *stored.Location.Lat, 1e-9)

	assert.ErrorIs(t, svc.UpdateLocation(999, 0, 0), ErrUserNotFound)
}
