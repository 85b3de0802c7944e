package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/notify"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/storage"
	"github.com/yoockh/placementcell/internal/utils"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock { return func() time.Time { return testNow } }

type fakeStudentRepo struct {
	mu   sync.Mutex
	byID map[string]models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{byID: make(map[string]models.Student)}
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == s.Email || existing.RollNumber == s.RollNumber {
			return utils.ErrDuplicate
		}
	}
	r.byID[s.ID] = *s
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (r *fakeStudentRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Student
	for _, id := range ids {
		if s, ok := r.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) find(match func(models.Student) bool) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if match(s) {
			return &s, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.find(func(s models.Student) bool { return s.Email == email })
}

func (r *fakeStudentRepo) GetByRollNumber(ctx context.Context, roll string) (*models.Student, error) {
	return r.find(func(s models.Student) bool { return s.RollNumber == roll })
}

// Update leaves credentials, identity and is_active alone, like the gorm repo.
func (r *fakeStudentRepo) Update(ctx context.Context, s *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[s.ID]
	if !ok {
		return utils.ErrNotFound
	}
	next := *s
	next.PasswordHash = cur.PasswordHash
	next.Email = cur.Email
	next.RollNumber = cur.RollNumber
	next.IsActive = cur.IsActive
	next.CreatedAt = cur.CreatedAt
	r.byID[s.ID] = next
	return nil
}

func (r *fakeStudentRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	s.IsActive = active
	r.byID[id] = s
	return nil
}

func (r *fakeStudentRepo) List(ctx context.Context, f pgrepo.StudentFilter) ([]models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Student
	for _, s := range r.byID {
		if f.Branch != "" && s.Branch != f.Branch {
			continue
		}
		if f.CurrentYear > 0 && s.CurrentYear != f.CurrentYear {
			continue
		}
		if f.Active != nil && s.IsActive != *f.Active {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out, nil
}

type fakeAdminRepo struct {
	mu      sync.Mutex
	byEmail map[string]models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byEmail: make(map[string]models.Admin)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, a *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return utils.ErrDuplicate
	}
	r.byEmail[a.Email] = *a
	return nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &a, nil
}

type fakeSkillRepo struct {
	mu   sync.Mutex
	rows []models.StudentSkill
}

func (r *fakeSkillRepo) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSkill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StudentSkill
	for _, s := range r.rows {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSkillRepo) Insert(ctx context.Context, s *models.StudentSkill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.StudentID == s.StudentID && existing.NameKey == s.NameKey {
			return utils.ErrDuplicate
		}
	}
	r.rows = append(r.rows, *s)
	return nil
}

func (r *fakeSkillRepo) Delete(ctx context.Context, studentID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.rows {
		if s.ID == id && s.StudentID == studentID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return utils.ErrNotFound
}

func (r *fakeSkillRepo) Replace(ctx context.Context, studentID string, skills []models.StudentSkill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, s := range r.rows {
		if s.StudentID != studentID {
			kept = append(kept, s)
		}
	}
	r.rows = append(kept, skills...)
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	byID map[string]models.Job
	// listCalls counts ListByStatus hits, to observe caching.
	listCalls int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[string]models.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, j *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[j.ID] = *j
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &j, nil
}

func (r *fakeJobRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, id := range ids {
		if j, ok := r.byID[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[j.ID]; !ok {
		return utils.ErrNotFound
	}
	r.byID[j.ID] = *j
	return nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeJobRepo) List(ctx context.Context, f pgrepo.JobFilter) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.byID {
		if f.Status == "" || j.Status == f.Status {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *fakeJobRepo) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var out []models.Job
	for _, j := range r.byID {
		if j.Status == status {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ApplicationClosed.Before(out[k].ApplicationClosed) })
	return out, nil
}

// fakeApplicationRepo enforces the (student_id, job_id) uniqueness the real
// table has.
type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[string]models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[string]models.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, a *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.StudentID == a.StudentID && existing.JobID == a.JobID {
			return utils.ErrDuplicate
		}
	}
	r.byID[a.ID] = *a
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &a, nil
}

func (r *fakeApplicationRepo) FindByStudentAndJob(ctx context.Context, studentID, jobID string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.StudentID == studentID && a.JobID == jobID {
			return &a, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeApplicationRepo) filter(match func(models.Application) bool) []models.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.byID {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out
}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	return r.filter(func(a models.Application) bool { return a.StudentID == studentID }), nil
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	return r.filter(func(a models.Application) bool { return a.JobID == jobID }), nil
}

func (r *fakeApplicationRepo) CountByJob(ctx context.Context, jobID string) (int64, error) {
	return int64(len(r.filter(func(a models.Application) bool { return a.JobID == jobID }))), nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context, studentID string) ([]models.StatusCount, error) {
	counts := map[models.ApplicationStatus]int64{}
	for _, a := range r.filter(func(a models.Application) bool { return a.StudentID == studentID }) {
		counts[a.Status]++
	}
	out := make([]models.StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, models.StatusCount{Status: st, Count: n})
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = at
	r.byID[id] = a
	return nil
}

func (r *fakeApplicationRepo) UpdateSelectedResume(ctx context.Context, id string, resumeID *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	a.SelectedResumeID = resumeID
	a.UpdatedAt = at
	r.byID[id] = a
	return nil
}

type fakeResumeRepo struct {
	mu        sync.Mutex
	byID      map[string]models.Resume
	insertErr error
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{byID: make(map[string]models.Resume)}
}

func (r *fakeResumeRepo) Insert(ctx context.Context, f *models.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.byID[f.ID] = *f
	return nil
}

func (r *fakeResumeRepo) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &f, nil
}

func (r *fakeResumeRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resume
	for _, f := range r.byID {
		if f.StudentID == studentID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeResumeRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	list, _ := r.ListByStudent(ctx, studentID)
	return int64(len(list)), nil
}

func (r *fakeResumeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]models.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.EventID] = *e
	return nil
}

func (r *fakeEventRepo) GetByEventID(ctx context.Context, id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEventRepo) Replace(ctx context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.EventID]; !ok {
		return utils.ErrNotFound
	}
	r.events[e.EventID] = *e
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) List(ctx context.Context, limit int64) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.After(out[j].EventDate) })
	return out, nil
}

func (r *fakeEventRepo) Upcoming(ctx context.Context, from time.Time, limit int64) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if e.IsActive && !e.EventDate.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memStorage keeps objects in memory; it reads bodies fully like a real backend.
type memStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	saveErr   error
	deleteErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return key, nil
}

func (m *memStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.objects[path]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, path)
	return nil
}

func (m *memStorage) count(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.StatusChange
	err  error
}

func (n *recordingNotifier) ApplicationStatusChanged(ctx context.Context, c notify.StatusChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, c)
	return n.err
}

func ptr[T any](v T) *T { return &v }
