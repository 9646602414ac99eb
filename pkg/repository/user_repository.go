package repository

import (
	"database/sql"
	"encoding/json"

	"goalgg/pkg/models"

	"github.com/lib/pq"
)

type UserRepository interface {
	Create(u *models.User) error
	GetByID(id int) (models.User, error)
	GetByEmail(email string) (models.User, error)
	EmailExists(email string) (bool, error)
	PhoneExists(number string) (bool, error)
	List(skip, limit int) ([]models.User, error)
	UpdateRole(userID, roleID int) error
	UpdateLocation(userID int, lat, lng float64) error
	OwnedClubCount(userID int) (int, error)
	GetRole(roleID int) (models.Role, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password, phone, image, year_of_birth,
	COALESCE(city, ''), COALESCE(country, ''), sport_category, positions, avg_skill_rating,
	location, role_id, total_games, total_points, total_assists, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var phone, location []byte
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &phone, &u.Image,
		&u.YearOfBirth, &u.City, &u.Country, &u.SportCategory, pq.Array(&u.Positions),
		&u.AvgSkill, &location, &u.RoleID, &u.TotalGames, &u.TotalPoints,
		&u.TotalAssists, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	json.Unmarshal(phone, &u.Phone)
	json.Unmarshal(location, &u.Location)
	return u, nil
}

func (r *userRepository) Create(u *models.User) error {
	phone, _ := json.Marshal(u.Phone)
	return r.db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password, phone, year_of_birth,
		                   city, country, sport_category, positions, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)
		RETURNING id, image, avg_skill_rating, created_at
	`, u.FirstName, u.LastName, u.Email, u.Password, phone, u.YearOfBirth,
		u.City, u.Country, u.SportCategory, pq.Array(u.Positions), u.RoleID,
	).Scan(&u.ID, &u.Image, &u.AvgSkill, &u.CreatedAt)
}

func (r *userRepository) GetByID(id int) (models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(email string) (models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *userRepository) PhoneExists(number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE phone->>'number' = $1)`, number).Scan(&exists)
	return exists, err
}

func (r *userRepository) List(skip, limit int) ([]models.User, error) {
	rows, err := r.db.Query(`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		if u, err := scanUser(rows); err == nil {
			users = append(users, u)
		}
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateRole(userID, roleID int) error {
	res, err := r.db.Exec(`UPDATE users SET role_id = $1, updated_at = NOW() WHERE id = $2`, roleID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateLocation(userID int, lat, lng float64) error {
	loc, _ := json.Marshal(models.Location{Lat: &lat, Lng: &lng})
	res, err := r.db.Exec(`UPDATE users SET location = $1, updated_at = NOW() WHERE id = $2`, loc, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) OwnedClubCount(userID int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM clubs WHERE admin_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *userRepository) GetRole(roleID int) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(`SELECT id, name, max_clubs, max_players, cost FROM roles WHERE id = $1`, roleID).
		Scan(&role.ID, &role.Name, &role.MaxClubs, &role.MaxPlayers, &role.Cost)
	return role, err
}
