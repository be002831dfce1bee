package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

// memoryDB backs the class, membership and user fakes with shared state.
type memoryDB struct {
	mu      sync.Mutex
	classes map[string]models.Class
	members map[string]models.Membership
	users   map[string]models.User
	order   int
	joined  map[string]int
	fail    map[string]error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		classes: map[string]models.Class{},
		members: map[string]models.Membership{},
		users:   map[string]models.User{},
		joined:  map[string]int{},
		fail:    map[string]error{},
	}
}

func memberKey(code, email string) string { return code + "|" + email }

func (m *memoryDB) failure(op string) error {
	return m.fail[op]
}

func (m *memoryDB) seedUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Email] = u
}

func (m *memoryDB) seedClass(c models.Class) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[c.Code] = c
}

func (m *memoryDB) seedMember(ms models.Membership) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putMember(ms)
}

func (m *memoryDB) putMember(ms models.Membership) {
	key := memberKey(ms.Code, ms.Email)
	m.order++
	m.joined[key] = m.order
	m.members[key] = ms
}

func (m *memoryDB) member(code, email string) (models.Membership, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.members[memberKey(code, email)]
	return ms, ok
}

func (m *memoryDB) class(code string) (models.Class, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.classes[code]
	return c, ok
}

func (m *memoryDB) membersOf(code string) []models.Membership {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Membership
	for _, ms := range m.members {
		if ms.Code == code {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.joined[memberKey(out[i].Code, out[i].Email)] < m.joined[memberKey(out[j].Code, out[j].Email)]
	})
	return out
}

type memoryClassRepo struct{ db *memoryDB }

func (r memoryClassRepo) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	if err := r.db.failure("class.find"); err != nil {
		return nil, err
	}
	c, ok := r.db.class(code)
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.Advisors = append(models.AdvisorList(nil), c.Advisors...)
	return &c, nil
}

func (r memoryClassRepo) FindByCodeForUpdate(ctx context.Context, tx *sqlx.Tx, code string) (*models.Class, error) {
	return r.FindByCode(ctx, code)
}

func (r memoryClassRepo) ExistsByOwnerAndName(ctx context.Context, owner, name string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.classes {
		if c.Owner == owner && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r memoryClassRepo) CreateWithTx(ctx context.Context, tx *sqlx.Tx, class *models.Class) error {
	if err := r.db.failure("class.create"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.classes[class.Code]; ok {
		return &pq.Error{Code: "23505"}
	}
	r.db.classes[class.Code] = *class
	return nil
}

func (r memoryClassRepo) UpdateDetailsWithTx(ctx context.Context, tx *sqlx.Tx, code, name, description string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.db.classes[code]
	c.Name, c.Description = name, description
	r.db.classes[code] = c
	return nil
}

func (r memoryClassRepo) UpdateAdvisorsWithTx(ctx context.Context, tx *sqlx.Tx, code string, advisors models.AdvisorList) error {
	if err := r.db.failure("class.advisors"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.db.classes[code]
	c.Advisors = advisors
	r.db.classes[code] = c
	return nil
}

func (r memoryClassRepo) PurgeWithTx(ctx context.Context, tx *sqlx.Tx, code string) error {
	if err := r.db.failure("class.purge"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.classes[code]; !ok {
		return sql.ErrNoRows
	}
	for key, ms := range r.db.members {
		if ms.Code == code {
			delete(r.db.members, key)
		}
	}
	delete(r.db.classes, code)
	return nil
}

type memoryMemberRepo struct{ db *memoryDB }

func (r memoryMemberRepo) Find(ctx context.Context, code, email string) (*models.Membership, error) {
	ms, ok := r.db.member(code, email)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &ms, nil
}

func (r memoryMemberRepo) Exists(ctx context.Context, code, email string) (bool, error) {
	if err := r.db.failure("member.exists"); err != nil {
		return false, err
	}
	_, ok := r.db.member(code, email)
	return ok, nil
}

func (r memoryMemberRepo) Create(ctx context.Context, membership *models.Membership) error {
	if err := r.db.failure("member.create"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.members[memberKey(membership.Code, membership.Email)]; ok {
		return &pq.Error{Code: "23505"}
	}
	r.db.putMember(*membership)
	return nil
}

func (r memoryMemberRepo) CreateWithTx(ctx context.Context, tx *sqlx.Tx, membership *models.Membership) error {
	return r.Create(ctx, membership)
}

func (r memoryMemberRepo) SetArchived(ctx context.Context, code, email string, archived bool) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := memberKey(code, email)
	ms, ok := r.db.members[key]
	if !ok {
		return 0, nil
	}
	ms.Archived = archived
	r.db.members[key] = ms
	return 1, nil
}

func (r memoryMemberRepo) Delete(ctx context.Context, code, email string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := memberKey(code, email)
	if _, ok := r.db.members[key]; !ok {
		return 0, nil
	}
	delete(r.db.members, key)
	return 1, nil
}

func (r memoryMemberRepo) DeleteWithTx(ctx context.Context, tx *sqlx.Tx, code, email string) (int64, error) {
	return r.Delete(ctx, code, email)
}

func (r memoryMemberRepo) UpdateRoleWithTx(ctx context.Context, tx *sqlx.Tx, code, email string, role models.UserRole) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := memberKey(code, email)
	ms, ok := r.db.members[key]
	if !ok {
		return 0, nil
	}
	ms.Role = role
	r.db.members[key] = ms
	return 1, nil
}

func (r memoryMemberRepo) UpdateSnapshotWithTx(ctx context.Context, tx *sqlx.Tx, code, name, description string) error {
	if err := r.db.failure("member.snapshot"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for key, ms := range r.db.members {
		if ms.Code == code {
			ms.ClassName, ms.Description = name, description
			r.db.members[key] = ms
		}
	}
	return nil
}

func (r memoryMemberRepo) UpdateAdvisorsWithTx(ctx context.Context, tx *sqlx.Tx, code string, advisors models.AdvisorList) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for key, ms := range r.db.members {
		if ms.Code == code {
			ms.Advisors = advisors
			r.db.members[key] = ms
		}
	}
	return nil
}

func (r memoryMemberRepo) ListByMember(ctx context.Context, email string, archived bool) ([]models.Membership, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Membership
	for _, ms := range r.db.members {
		if ms.Email == email && ms.Archived == archived {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r memoryMemberRepo) ListByCode(ctx context.Context, code string) ([]models.Membership, error) {
	if err := r.db.failure("member.list"); err != nil {
		return nil, err
	}
	return r.db.membersOf(code), nil
}

func (r memoryMemberRepo) ListClassesByMember(ctx context.Context, email string) ([]models.ClassSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.ClassSummary
	for _, ms := range r.db.members {
		if ms.Email == email {
			out = append(out, models.ClassSummary{ClassName: ms.ClassName, Code: ms.Code})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r memoryMemberRepo) CountByCode(ctx context.Context) ([]models.CodeCount, error) {
	if err := r.db.failure("member.count"); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	totals := map[string]int{}
	for _, ms := range r.db.members {
		totals[ms.Code]++
	}
	out := make([]models.CodeCount, 0, len(totals))
	for code, total := range totals {
		out = append(out, models.CodeCount{Code: code, Total: total})
	}
	return out, nil
}

type memoryUserRepo struct{ db *memoryDB }

func (r memoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := r.db.failure("user.find"); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (r memoryUserRepo) FindByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.User{}
	for _, email := range emails {
		if u, ok := r.db.users[email]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.Email]; ok {
		return &pq.Error{Code: "23505"}
	}
	r.db.users[user.Email] = *user
	return nil
}

var (
	guru  = models.Identity{Email: "teacher@x.com", Name: "Bu Guru", Role: models.RoleGuru, Institution: "SMA 1"}
	siswa = models.Identity{Email: "student@y.com", Name: "Siswa Satu", Role: models.RoleSiswa, Institution: "SMA 1"}
)

// seedClassWithOwner stores class code owned by teacher together with the owner's GURU row.
func seedClassWithOwner(db *memoryDB, code, name string) {
	class := models.Class{
		Code:        code,
		Owner:       guru.Email,
		Name:        name,
		Description: "desk",
		Advisors:    models.AdvisorList{guru.Email},
		Institution: guru.Institution,
	}
	db.seedClass(class)
	snap := models.SnapshotOf(&class, guru.Name)
	db.seedMember(models.Membership{
		Code: code, Email: guru.Email, ClassName: snap.ClassName, Description: snap.Description,
		MemberName: snap.MemberName, Advisors: snap.Advisors, Institution: snap.Institution, Role: models.RoleGuru,
	})
}
