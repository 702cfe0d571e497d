package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"

	"gorm.io/gorm"
)

// memData is the whole fake database. Rows are stored by value so a snapshot
// is a plain map copy.
type memData struct {
	nextID        uint
	users         map[uint]model.User
	roleRequests  map[uint]model.RoleRequest
	courses       map[uint]model.Course
	enrollments   map[uint]model.Enrollment
	assignments   map[uint]model.Assignment
	submissions   map[uint]model.Submission
	notifications map[uint]model.Notification
	discussions   map[uint]model.Discussion
	replies       map[uint]model.Reply
}

func newMemData() *memData {
	return &memData{
		users:         map[uint]model.User{},
		roleRequests:  map[uint]model.RoleRequest{},
		courses:       map[uint]model.Course{},
		enrollments:   map[uint]model.Enrollment{},
		assignments:   map[uint]model.Assignment{},
		submissions:   map[uint]model.Submission{},
		notifications: map[uint]model.Notification{},
		discussions:   map[uint]model.Discussion{},
		replies:       map[uint]model.Reply{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		nextID:        d.nextID,
		users:         copyMap(d.users),
		roleRequests:  copyMap(d.roleRequests),
		courses:       copyMap(d.courses),
		enrollments:   copyMap(d.enrollments),
		assignments:   copyMap(d.assignments),
		submissions:   copyMap(d.submissions),
		notifications: copyMap(d.notifications),
		discussions:   copyMap(d.discussions),
		replies:       copyMap(d.replies),
	}
}

// memStore implements repository.Store in memory. It enforces the same unique
// constraints as the schema and restores a snapshot when a transaction fails.
type memStore struct {
	mu   *sync.Mutex
	txMu *sync.Mutex
	data *memData
	inTx bool

	// failNotify makes every notification insert fail with this error.
	failNotify error
}

func newMemStore() *memStore {
	return &memStore{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, data: newMemData()}
}

func (s *memStore) Users() repository.UserRepository                 { return memUsers{s} }
func (s *memStore) RoleRequests() repository.RoleRequestRepository   { return memRoleRequests{s} }
func (s *memStore) Courses() repository.CourseRepository             { return memCourses{s} }
func (s *memStore) Enrollments() repository.EnrollmentRepository     { return memEnrollments{s} }
func (s *memStore) Assignments() repository.AssignmentRepository     { return memAssignments{s} }
func (s *memStore) Submissions() repository.SubmissionRepository     { return memSubmissions{s} }
func (s *memStore) Notifications() repository.NotificationRepository { return memNotifications{s} }
func (s *memStore) Discussions() repository.DiscussionRepository     { return memDiscussions{s} }

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	tx := *s
	tx.inTx = true
	if err := fn(&tx); err != nil {
		s.mu.Lock()
		*s.data = *snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) stamp(b *model.BaseModel) {
	s.data.nextID++
	b.ID = s.data.nextID
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Count helpers used by assertions.
func (s *memStore) countNotifications(recipientID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.data.notifications {
		if row.RecipientID == recipientID {
			n++
		}
	}
	return n
}

func (s *memStore) countSubmissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.submissions)
}

func (s *memStore) countEnrollments(studentID, courseID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.data.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			n++
		}
	}
	return n
}

// ── users ──

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&user.BaseModel)
	r.s.data.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memUsers) FindByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byEmail := strings.Contains(identifier, "@")
	for _, u := range r.s.data.users {
		if (byEmail && u.Email == strings.ToLower(identifier)) || (!byEmail && u.Username == identifier) {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) List(_ context.Context, q repository.UserQuery) ([]model.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, u := range r.s.data.users {
		if q.Role == "" || u.Role == q.Role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if q.Limit > 0 {
		out = page(out, q.Offset, q.Limit)
	}
	return out, total, nil
}

func (r memUsers) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.data.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r memUsers) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.users, id)
	return nil
}

// ── role requests ──

type memRoleRequests struct{ s *memStore }

func (r memRoleRequests) Create(_ context.Context, req *model.RoleRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&req.BaseModel)
	row := *req
	row.User = nil
	r.s.data.roleRequests[req.ID] = row
	return nil
}

func (r memRoleRequests) FindByID(_ context.Context, id uint) (*model.RoleRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.data.roleRequests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if u, ok := r.s.data.users[req.UserID]; ok {
		req.User = &u
	}
	return &req, nil
}

func (r memRoleRequests) ListPending(_ context.Context) ([]model.RoleRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.RoleRequest
	for _, req := range r.s.data.roleRequests {
		if req.Status == model.RoleRequestPending {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memRoleRequests) Update(_ context.Context, req *model.RoleRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *req
	row.User = nil
	r.s.data.roleRequests[req.ID] = row
	return nil
}

func (r memRoleRequests) DeleteByUser(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, req := range r.s.data.roleRequests {
		if req.UserID == userID {
			delete(r.s.data.roleRequests, id)
		}
	}
	return nil
}

// ── courses ──

type memCourses struct{ s *memStore }

func (r memCourses) Create(_ context.Context, course *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.courses {
		if c.Name == course.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&course.BaseModel)
	row := *course
	row.Instructor = nil
	r.s.data.courses[course.ID] = row
	return nil
}

func (r memCourses) FindByID(_ context.Context, id uint) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if u, ok := r.s.data.users[c.InstructorID]; ok {
		c.Instructor = &u
	}
	return &c, nil
}

func (r memCourses) enrolled(studentID, courseID uint) bool {
	for _, e := range r.s.data.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (r memCourses) List(_ context.Context, q repository.CourseQuery) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Course
	for _, c := range r.s.data.courses {
		if q.InstructorID != 0 && c.InstructorID != q.InstructorID {
			continue
		}
		if q.EnrolledStudentID != 0 && !r.enrolled(q.EnrolledStudentID, c.ID) {
			continue
		}
		if q.NotEnrolledStudentID != 0 && r.enrolled(q.NotEnrolledStudentID, c.ID) {
			continue
		}
		if q.Search != "" && !strings.Contains(c.Name, q.Search) && !strings.Contains(c.Description, q.Search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCourses) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.courses, id)
	return nil
}

// ── enrollments ──

type memEnrollments struct{ s *memStore }

func (r memEnrollments) Create(_ context.Context, e *model.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.enrollments {
		if row.StudentID == e.StudentID && row.CourseID == e.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.stamp(&e.BaseModel)
	row := *e
	row.Student, row.Course = nil, nil
	r.s.data.enrollments[e.ID] = row
	return nil
}

func (r memEnrollments) Exists(_ context.Context, studentID, courseID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memCourses{r.s}.enrolled(studentID, courseID), nil
}

func (r memEnrollments) Delete(_ context.Context, studentID, courseID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.data.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			delete(r.s.data.enrollments, id)
			n++
		}
	}
	return n, nil
}

func (r memEnrollments) ListByCourse(_ context.Context, courseID uint) ([]model.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Enrollment
	for _, e := range r.s.data.enrollments {
		if e.CourseID == courseID {
			if u, ok := r.s.data.users[e.StudentID]; ok {
				e.Student = &u
			}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memEnrollments) CountByCourses(_ context.Context, courseIDs []uint) (map[uint]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[uint]int64, len(courseIDs))
	for _, id := range courseIDs {
		for _, e := range r.s.data.enrollments {
			if e.CourseID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (r memEnrollments) DeleteByCourse(_ context.Context, courseID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.data.enrollments {
		if e.CourseID == courseID {
			delete(r.s.data.enrollments, id)
		}
	}
	return nil
}

func (r memEnrollments) DeleteByStudent(_ context.Context, studentID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.data.enrollments {
		if e.StudentID == studentID {
			delete(r.s.data.enrollments, id)
		}
	}
	return nil
}

// ── assignments ──

type memAssignments struct{ s *memStore }

func (r memAssignments) Create(_ context.Context, a *model.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&a.BaseModel)
	row := *a
	row.Course = nil
	r.s.data.assignments[a.ID] = row
	return nil
}

func (r memAssignments) withCourse(a model.Assignment) model.Assignment {
	if c, ok := r.s.data.courses[a.CourseID]; ok {
		a.Course = &c
	}
	return a
}

func (r memAssignments) FindByID(_ context.Context, id uint) (*model.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a = r.withCourse(a)
	return &a, nil
}

func (r memAssignments) ListByCourse(_ context.Context, courseID uint) ([]model.Assignment, error) {
	return r.ListByCourses(context.Background(), []uint{courseID})
}

func (r memAssignments) ListByCourses(_ context.Context, courseIDs []uint) ([]model.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Assignment
	for _, a := range r.s.data.assignments {
		for _, id := range courseIDs {
			if a.CourseID == id {
				out = append(out, r.withCourse(a))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r memAssignments) DeleteByCourse(_ context.Context, courseID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.data.assignments {
		if a.CourseID == courseID {
			delete(r.s.data.assignments, id)
		}
	}
	return nil
}

// ── submissions ──

type memSubmissions struct{ s *memStore }

func (r memSubmissions) Create(_ context.Context, sub *model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&sub.BaseModel)
	row := *sub
	row.Assignment, row.Student = nil, nil
	r.s.data.submissions[sub.ID] = row
	return nil
}

func (r memSubmissions) preload(sub model.Submission) model.Submission {
	if a, ok := r.s.data.assignments[sub.AssignmentID]; ok {
		a = memAssignments{r.s}.withCourse(a)
		sub.Assignment = &a
	}
	if u, ok := r.s.data.users[sub.StudentID]; ok {
		sub.Student = &u
	}
	// the GORM repository gets this from the AfterFind hook
	sub.FillComputed()
	return sub
}

func (r memSubmissions) FindByID(_ context.Context, id uint) (*model.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.data.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sub = r.preload(sub)
	return &sub, nil
}

func (r memSubmissions) list(keep func(model.Submission) bool) []model.Submission {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Submission
	for _, sub := range r.s.data.submissions {
		if keep(sub) {
			out = append(out, r.preload(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memSubmissions) ListByAssignment(_ context.Context, assignmentID uint) ([]model.Submission, error) {
	return r.list(func(s model.Submission) bool { return s.AssignmentID == assignmentID }), nil
}

func (r memSubmissions) ListByStudent(_ context.Context, studentID uint, gradedOnly bool) ([]model.Submission, error) {
	out := r.list(func(s model.Submission) bool {
		return s.StudentID == studentID && (!gradedOnly || s.Status == model.SubmissionGraded)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memSubmissions) ListByCourse(_ context.Context, courseID uint) ([]model.Submission, error) {
	return r.list(func(s model.Submission) bool {
		a, ok := r.s.data.assignments[s.AssignmentID]
		return ok && a.CourseID == courseID
	}), nil
}

func (r memSubmissions) UpdateGrade(_ context.Context, sub *model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.submissions[sub.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Grade, row.Status, row.GradedAt = sub.Grade, sub.Status, sub.GradedAt
	r.s.data.submissions[sub.ID] = row
	return nil
}

func (r memSubmissions) DeleteByCourse(_ context.Context, courseID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.data.submissions {
		if a, ok := r.s.data.assignments[sub.AssignmentID]; ok && a.CourseID == courseID {
			delete(r.s.data.submissions, id)
		}
	}
	return nil
}

func (r memSubmissions) DeleteByStudent(_ context.Context, studentID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.data.submissions {
		if sub.StudentID == studentID {
			delete(r.s.data.submissions, id)
		}
	}
	return nil
}

// ── notifications ──

type memNotifications struct{ s *memStore }

func (r memNotifications) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failNotify != nil {
		return r.s.failNotify
	}
	r.s.stamp(&n.BaseModel)
	r.s.data.notifications[n.ID] = *n
	return nil
}

func (r memNotifications) CreateBatch(ctx context.Context, ns []model.Notification) error {
	for i := range ns {
		if err := r.Create(ctx, &ns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r memNotifications) FindByID(_ context.Context, id uint) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.data.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r memNotifications) ListByRecipient(_ context.Context, recipientID uint, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Notification
	for _, n := range r.s.data.notifications {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, offset, limit), int64(len(out)), nil
}

func (r memNotifications) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.data.notifications {
		if row.RecipientID == recipientID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (r memNotifications) MarkRead(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.data.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	r.s.data.notifications[id] = n
	return nil
}

func (r memNotifications) MarkAllRead(_ context.Context, recipientID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for id, n := range r.s.data.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			r.s.data.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (r memNotifications) DeleteByRecipient(_ context.Context, recipientID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, n := range r.s.data.notifications {
		if n.RecipientID == recipientID {
			delete(r.s.data.notifications, id)
		}
	}
	return nil
}

// ── discussions ──

type memDiscussions struct{ s *memStore }

func (r memDiscussions) Create(_ context.Context, d *model.Discussion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&d.BaseModel)
	row := *d
	row.Author, row.Replies = nil, nil
	r.s.data.discussions[d.ID] = row
	return nil
}

func (r memDiscussions) FindByID(_ context.Context, id uint) (*model.Discussion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.discussions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, reply := range r.s.data.replies {
		if reply.DiscussionID == id {
			d.Replies = append(d.Replies, reply)
		}
	}
	sort.Slice(d.Replies, func(i, j int) bool { return d.Replies[i].ID < d.Replies[j].ID })
	return &d, nil
}

func (r memDiscussions) ListByCourse(_ context.Context, courseID uint) ([]model.Discussion, error) {
	return r.ListRecentByCourses(context.Background(), []uint{courseID}, 0)
}

func (r memDiscussions) ListRecentByCourses(_ context.Context, courseIDs []uint, limit int) ([]model.Discussion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Discussion
	for _, d := range r.s.data.discussions {
		for _, id := range courseIDs {
			if d.CourseID == id {
				out = append(out, d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memDiscussions) CreateReply(_ context.Context, reply *model.Reply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.discussions[reply.DiscussionID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	r.s.stamp(&reply.BaseModel)
	row := *reply
	row.Author = nil
	r.s.data.replies[reply.ID] = row
	return nil
}

func (r memDiscussions) DeleteByCourse(_ context.Context, courseID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, d := range r.s.data.discussions {
		if d.CourseID != courseID {
			continue
		}
		for rid, reply := range r.s.data.replies {
			if reply.DiscussionID == id {
				delete(r.s.data.replies, rid)
			}
		}
		delete(r.s.data.discussions, id)
	}
	return nil
}

func (r memDiscussions) DeleteByAuthor(_ context.Context, authorID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for rid, reply := range r.s.data.replies {
		d := r.s.data.discussions[reply.DiscussionID]
		if reply.AuthorID == authorID || d.AuthorID == authorID {
			delete(r.s.data.replies, rid)
		}
	}
	for id, d := range r.s.data.discussions {
		if d.AuthorID == authorID {
			delete(r.s.data.discussions, id)
		}
	}
	return nil
}

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
