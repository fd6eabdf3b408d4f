package staff

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/database"
)

const table = "staff"

var columns = []string{
	"id", "name", "email", "password_hash", "role",
	"is_active", "full_admin", "permissions", "created_at", "updated_at",
}

// Store persists staff accounts.
type Store interface {
	Create(ctx context.Context, s *Staff) error
	Get(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	List(ctx context.Context) ([]Staff, error)
	Update(ctx context.Context, id uuid.UUID, p Patch, at time.Time) (*Staff, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountFullAdmins(ctx context.Context) (int, error)
}

type pgStore struct {
	drv *entsql.Driver
}

func NewPostgresStore(drv *entsql.Driver) Store {
	return &pgStore{drv: drv}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func permStrings(perms []authorize.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

func scanStaff(rows *entsql.Rows) (*Staff, error) {
	var (
		s     Staff
		perms []string
	)
	if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role,
		&s.IsActive, &s.FullAdmin, pq.Array(&perms), &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Permissions = make([]authorize.Permission, 0, len(perms))
	for _, p := range perms {
		s.Permissions = append(s.Permissions, authorize.Permission(p))
	}
	return &s, nil
}

func (st *pgStore) queryOne(ctx context.Context, op, query string, args []any) (*Staff, error) {
	var rows entsql.Rows
	if err := st.drv.Query(ctx, query, args, &rows); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Store(op, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrEmailTaken
			}
			return nil, apperr.Store(op, err)
		}
		return nil, ErrNotFound
	}
	s, err := scanStaff(&rows)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	return s, nil
}

func (st *pgStore) Create(ctx context.Context, s *Staff) error {
	query, args := database.Dialect().
		Insert(table).
		Columns(columns...).
		Values(s.ID, s.Name, s.Email, s.PasswordHash, string(s.Role),
			s.IsActive, s.FullAdmin, pq.Array(permStrings(s.Permissions)), s.CreatedAt, s.UpdatedAt).
		Returning(columns...).
		Query()
	created, err := st.queryOne(ctx, "create staff", query, args)
	if err != nil {
		return err
	}
	*s = *created
	return nil
}

func (st *pgStore) selectWhere(p *entsql.Predicate) (string, []any) {
	t := database.Dialect().Table(table)
	sel := database.Dialect().Select(columns...).From(t)
	if p != nil {
		sel = sel.Where(p)
	}
	return sel.OrderBy("created_at").Query()
}

func (st *pgStore) Get(ctx context.Context, id uuid.UUID) (*Staff, error) {
	query, args := st.selectWhere(entsql.EQ("id", id))
	return st.queryOne(ctx, "get staff", query, args)
}

func (st *pgStore) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	query, args := st.selectWhere(entsql.EQ("email", email))
	return st.queryOne(ctx, "get staff by email", query, args)
}

func (st *pgStore) List(ctx context.Context) ([]Staff, error) {
	query, args := st.selectWhere(nil)
	var rows entsql.Rows
	if err := st.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, apperr.Store("list staff", err)
	}
	defer rows.Close()

	out := []Staff{}
	for rows.Next() {
		s, err := scanStaff(&rows)
		if err != nil {
			return nil, apperr.Store("list staff", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list staff", err)
	}
	return out, nil
}

func (st *pgStore) Update(ctx context.Context, id uuid.UUID, p Patch, at time.Time) (*Staff, error) {
	u := database.Dialect().Update(table).Set("updated_at", at)
	if p.Name != nil {
		u.Set("name", *p.Name)
	}
	if p.Email != nil {
		u.Set("email", *p.Email)
	}
	if p.PasswordHash != nil {
		u.Set("password_hash", *p.PasswordHash)
	}
	if p.Role != nil {
		u.Set("role", string(*p.Role))
	}
	if p.IsActive != nil {
		u.Set("is_active", *p.IsActive)
	}
	if p.FullAdmin != nil {
		u.Set("full_admin", *p.FullAdmin)
	}
	if p.SetPerms {
		u.Set("permissions", pq.Array(permStrings(p.Permissions)))
	}
	query, args := u.Where(entsql.EQ("id", id)).Returning(columns...).Query()
	return st.queryOne(ctx, "update staff", query, args)
}

func (st *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args := database.Dialect().Delete(table).Where(entsql.EQ("id", id)).Query()
	var res stdsql.Result
	if err := st.drv.Exec(ctx, query, args, &res); err != nil {
		return apperr.Store("delete staff", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store("delete staff", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (st *pgStore) CountFullAdmins(ctx context.Context) (int, error) {
	query, args := database.Dialect().
		Select(entsql.Count("*")).
		From(database.Dialect().Table(table)).
		Where(entsql.And(entsql.EQ("full_admin", true), entsql.EQ("is_active", true))).
		Query()
	var rows entsql.Rows
	if err := st.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, apperr.Store("count full admins", err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, apperr.Store("count full admins", err)
		}
	}
	return n, rows.Err()
}
