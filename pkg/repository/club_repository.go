package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"goalgg/pkg/models"

	"github.com/lib/pq"
)

type ClubRepository interface {
	CreateWithAdmin(club *models.Club, member *models.Member) error
	GetByID(id int) (models.Club, error)
	Search(f models.ClubSearch) ([]models.Club, error)
	OwnedBy(userID int) ([]models.Club, error)
	MemberClubs(userID int) ([]models.Club, error)
	MemberExists(clubID, userID int) (bool, error)
	MemberCount(clubID int) (int, error)
	AddMember(m *models.Member) error
	RemoveMember(clubID, userID int) error
	RemoveCaptain(clubID, userID int) error
	HasPendingRequest(clubID, userID int) (bool, error)
	AddPendingRequest(clubID, userID int) error
	ApproveRequest(clubID, userID int, m *models.Member) error
}

type clubRepository struct {
	db *sql.DB
}

func NewClubRepository(db *sql.DB) ClubRepository {
	return &clubRepository{db: db}
}

const clubColumns = `c.id, c.name, c.description, c.image, c.admin_id, c.captains,
	c.sport_category, c.is_private, c.max_players, c.status, c.location, c.pending_requests,
	(SELECT COUNT(*) FROM members m WHERE m.club_id = c.id) AS members_count,
	c.created_at, c.updated_at`

func scanClub(row rowScanner) (models.Club, error) {
	var c models.Club
	var location []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Image, &c.AdminID, pq.Array(&c.Captains),
		&c.SportCategory, &c.IsPrivate, &c.MaxPlayers, &c.Status, &location,
		pq.Array(&c.PendingRequests), &c.MembersCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return models.Club{}, err
	}
	json.Unmarshal(location, &c.Location)
	return c, nil
}

// CreateWithAdmin inserts the club and its first member record (the admin)
// in one transaction.
func (r *clubRepository) CreateWithAdmin(club *models.Club, member *models.Member) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	location, _ := json.Marshal(club.Location)
	err = tx.QueryRow(`
		INSERT INTO clubs (name, description, image, admin_id, captains, sport_category,
		                   is_private, max_players, status, location, pending_requests)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'default-club.jpg'), $4, $5, $6, $7, $8, $9, $10, '{}')
		RETURNING id, image, created_at
	`, club.Name, club.Description, club.Image, club.AdminID, pq.Array(club.Captains),
		club.SportCategory, club.IsPrivate, club.MaxPlayers, club.Status, location,
	).Scan(&club.ID, &club.Image, &club.CreatedAt)
	if err != nil {
		return err
	}

	member.ClubID = club.ID
	err = tx.QueryRow(`
		INSERT INTO members (club_id, user_id, skill_rating, positions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, member.ClubID, member.UserID, member.SkillRating, pq.Array(member.Positions),
	).Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		return err
	}

	club.MembersCount = 1
	return tx.Commit()
}

func (r *clubRepository) GetByID(id int) (models.Club, error) {
	return scanClub(r.db.QueryRow(`SELECT `+clubColumns+` FROM clubs c WHERE c.id = $1`, id))
}

func (r *clubRepository) Search(f models.ClubSearch) ([]models.Club, error) {
	var where []string
	var args []interface{}

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if f.SportCategory != "" {
		args = append(args, f.SportCategory)
		where = append(where, fmt.Sprintf("c.sport_category = $%d", len(args)))
	}
	if f.IsPrivate != nil {
		args = append(args, *f.IsPrivate)
		where = append(where, fmt.Sprintf("c.is_private = $%d", len(args)))
	}

	query := `SELECT ` + clubColumns + ` FROM clubs c`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch f.SortBy {
	case "created_at":
		query += " ORDER BY c.created_at DESC"
	case "members_count":
		query += " ORDER BY members_count DESC"
	case "distance":
		args = append(args, *f.UserLat)
		latIdx := len(args)
		args = append(args, *f.UserLng)
		query += fmt.Sprintf(
			" ORDER BY sqrt(power((c.location->>'lat')::float - $%d, 2) + power((c.location->>'lng')::float - $%d, 2)) NULLS LAST",
			latIdx, latIdx+1)
	default:
		query += " ORDER BY c.name"
	}

	args = append(args, f.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, f.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []models.Club
	for rows.Next() {
		if c, err := scanClub(rows); err == nil {
			clubs = append(clubs, c)
		}
	}
	return clubs, rows.Err()
}

func (r *clubRepository) OwnedBy(userID int) ([]models.Club, error) {
	return r.queryClubs(`SELECT `+clubColumns+` FROM clubs c WHERE c.admin_id = $1 ORDER BY c.name`, userID)
}

func (r *clubRepository) MemberClubs(userID int) ([]models.Club, error) {
	return r.queryClubs(`
		SELECT `+clubColumns+` FROM clubs c
		JOIN members m ON m.club_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.name`, userID)
}

func (r *clubRepository) queryClubs(query string, args ...interface{}) ([]models.Club, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []models.Club
	for rows.Next() {
		if c, err := scanClub(rows); err == nil {
			clubs = append(clubs, c)
		}
	}
	return clubs, rows.Err()
}

func (r *clubRepository) MemberExists(clubID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM members WHERE club_id = $1 AND user_id = $2)`,
		clubID, userID).Scan(&exists)
	return exists, err
}

func (r *clubRepository) MemberCount(clubID int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM members WHERE club_id = $1`, clubID).Scan(&n)
	return n, err
}

func (r *clubRepository) AddMember(m *models.Member) error {
	return r.db.QueryRow(`
		INSERT INTO members (club_id, user_id, skill_rating, positions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.ClubID, m.UserID, m.SkillRating, pq.Array(m.Positions)).Scan(&m.ID, &m.CreatedAt)
}

func (r *clubRepository) RemoveMember(clubID, userID int) error {
	res, err := r.db.Exec(`DELETE FROM members WHERE club_id = $1 AND user_id = $2`, clubID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *clubRepository) RemoveCaptain(clubID, userID int) error {
	_, err := r.db.Exec(`UPDATE clubs SET captains = array_remove(captains, $1) WHERE id = $2`,
		userID, clubID)
	return err
}

func (r *clubRepository) HasPendingRequest(clubID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT $1 = ANY(pending_requests) FROM clubs WHERE id = $2`,
		userID, clubID).Scan(&exists)
	return exists, err
}

func (r *clubRepository) AddPendingRequest(clubID, userID int) error {
	_, err := r.db.Exec(`
		UPDATE clubs SET pending_requests = array_append(pending_requests, $1)
		WHERE id = $2 AND NOT ($1 = ANY(pending_requests))`, userID, clubID)
	return err
}

// ApproveRequest moves a pending request into a member record in one
// transaction.
func (r *clubRepository) ApproveRequest(clubID, userID int, m *models.Member) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE clubs SET pending_requests = array_remove(pending_requests, $1)
		WHERE id = $2 AND $1 = ANY(pending_requests)`, userID, clubID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	m.ClubID = clubID
	m.UserID = userID
	err = tx.QueryRow(`
		INSERT INTO members (club_id, user_id, skill_rating, positions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.ClubID, m.UserID, m.SkillRating, pq.Array(m.Positions)).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}
