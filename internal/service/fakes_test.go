package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
)

// In-memory repository fakes. Each method mirrors the SQL-backed
// behavior closely enough for service-level tests, including the
// conflict-ignoring seed and the full-replace upsert.

type fakeCalendarRepo struct {
	calendars map[string]*model.Calendar
	err       error
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{calendars: map[string]*model.Calendar{}}
}

func (r *fakeCalendarRepo) Create(c *model.Calendar) error {
	if r.err != nil {
		return r.err
	}
	cp := *c
	r.calendars[c.ID] = &cp
	return nil
}

func (r *fakeCalendarRepo) ByID(id string) (*model.Calendar, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.calendars[id]
	if !ok {
		return nil, repository.ErrCalendarNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCalendarRepo) ByCreatorID(creatorID string) (*model.Calendar, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.calendars {
		if c.CreatorID == creatorID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrCalendarNotFound
}

func (r *fakeCalendarRepo) ByShareCode(code string) (*model.Calendar, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.calendars {
		if c.ShareCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrCalendarNotFound
}

func (r *fakeCalendarRepo) Update(c *model.Calendar) error {
	if r.err != nil {
		return r.err
	}
	stored, ok := r.calendars[c.ID]
	if !ok || stored.CreatorID != c.CreatorID {
		return repository.ErrCalendarNotFound
	}
	cp := *c
	r.calendars[c.ID] = &cp
	return nil
}

func (r *fakeCalendarRepo) SearchPublic(query string, limit int) ([]*model.Calendar, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*model.Calendar
	for _, c := range r.calendars {
		if c.IsPublic && len(out) < limit {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDayRepo struct {
	days map[string]*model.CalendarDay // keyed by id

	err        error
	seedErr    error
	upsertErr  error
	upsertLog  int
	adjustsErr error
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: map[string]*model.CalendarDay{}}
}

func (r *fakeDayRepo) SeedDays(calendarID string, dayNumbers []int) error {
	if r.seedErr != nil {
		return r.seedErr
	}
	if r.err != nil {
		return r.err
	}
	for _, n := range dayNumbers {
		if r.find(calendarID, n) != nil {
			continue
		}
		now := time.Now()
		id := uuid.New().String()
		r.days[id] = &model.CalendarDay{
			ID:         id,
			CalendarID: calendarID,
			DayNumber:  n,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return nil
}

func (r *fakeDayRepo) Days(calendarID string) ([]*model.CalendarDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*model.CalendarDay
	for n := 1; n <= 31; n++ {
		if d := r.find(calendarID, n); d != nil {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDayRepo) Day(calendarID string, dayNumber int) (*model.CalendarDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	d := r.find(calendarID, dayNumber)
	if d == nil {
		return nil, repository.ErrDayNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDayRepo) DayByID(id string) (*model.CalendarDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.days[id]
	if !ok {
		return nil, repository.ErrDayNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDayRepo) Upsert(day *model.CalendarDay) (*model.CalendarDay, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	if r.err != nil {
		return nil, r.err
	}
	r.upsertLog++
	now := time.Now()
	existing := r.find(day.CalendarID, day.DayNumber)
	if existing == nil {
		id := uuid.New().String()
		stored := *day
		stored.ID = id
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.days[id] = &stored
		cp := stored
		return &cp, nil
	}
	existing.Title = day.Title
	existing.Message = day.Message
	existing.ImageURL = day.ImageURL
	existing.ModelURL = day.ModelURL
	existing.UpdatedAt = now
	cp := *existing
	return &cp, nil
}

func (r *fakeDayRepo) CountDays(calendarID string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	days, _ := r.Days(calendarID)
	return len(days), nil
}

func (r *fakeDayRepo) TopPublicDays(sortBy string, limit int) ([]*model.CalendarDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*model.CalendarDay
	for _, d := range r.days {
		if d.HasContent() && len(out) < limit {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDayRepo) AdjustLikeCount(dayID string, delta int) error {
	if r.adjustsErr != nil {
		return r.adjustsErr
	}
	if r.err != nil {
		return r.err
	}
	d, ok := r.days[dayID]
	if !ok {
		return repository.ErrDayNotFound
	}
	d.LikeCount += delta
	if d.LikeCount < 0 {
		d.LikeCount = 0
	}
	return nil
}

func (r *fakeDayRepo) find(calendarID string, dayNumber int) *model.CalendarDay {
	for _, d := range r.days {
		if d.CalendarID == calendarID && d.DayNumber == dayNumber {
			return d
		}
	}
	return nil
}

type fakeLikeRepo struct {
	likes map[string]bool // dayID + "/" + userID
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[string]bool{}}
}

func (r *fakeLikeRepo) Create(like *model.Like) error {
	key := like.DayID + "/" + like.UserID
	if r.likes[key] {
		return repository.ErrDuplicateLike
	}
	r.likes[key] = true
	return nil
}

func (r *fakeLikeRepo) Delete(dayID, userID string) (bool, error) {
	key := dayID + "/" + userID
	if !r.likes[key] {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) Exists(dayID, userID string) (bool, error) {
	return r.likes[dayID+"/"+userID], nil
}

type fakeCommentRepo struct {
	comments map[string]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*model.Comment{}}
}

func (r *fakeCommentRepo) Create(c *model.Comment) error {
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) ByDay(dayID string) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, c := range r.comments {
		if c.DayID == dayID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) ByID(id string) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) Delete(id, userID string) error {
	c, ok := r.comments[id]
	if !ok || c.UserID != userID {
		return repository.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

type fakeBookmarkRepo struct {
	bookmarks map[string]*model.Bookmark // calendarID + "/" + userID
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{bookmarks: map[string]*model.Bookmark{}}
}

func (r *fakeBookmarkRepo) Create(b *model.Bookmark) error {
	key := b.CalendarID + "/" + b.UserID
	if _, ok := r.bookmarks[key]; ok {
		return nil
	}
	cp := *b
	cp.ID = uuid.New().String()
	cp.CreatedAt = time.Now()
	r.bookmarks[key] = &cp
	return nil
}

func (r *fakeBookmarkRepo) Delete(calendarID, userID string) (bool, error) {
	key := calendarID + "/" + userID
	if _, ok := r.bookmarks[key]; !ok {
		return false, nil
	}
	delete(r.bookmarks, key)
	return true, nil
}

func (r *fakeBookmarkRepo) Exists(calendarID, userID string) (bool, error) {
	_, ok := r.bookmarks[calendarID+"/"+userID]
	return ok, nil
}

func (r *fakeBookmarkRepo) ByUser(userID string) ([]*model.Bookmark, error) {
	var out []*model.Bookmark
	for _, b := range r.bookmarks {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*model.Profile{}}
}

func (r *fakeProfileRepo) Create(p *model.Profile) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) ByUserID(userID string) (*model.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) ByUsername(username string) (*model.Profile, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrProfileNotFound
}

func (r *fakeProfileRepo) Update(p *model.Profile) error {
	if _, ok := r.profiles[p.UserID]; !ok {
		return repository.ErrProfileNotFound
	}
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

// fakeStorage records saved objects so tests can assert that rejected
// input never reaches the object store.
type fakeStorage struct {
	saved   map[string][]byte
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(path string, file io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.saved[path] = data
	return nil
}

func (s *fakeStorage) Delete(path string) error {
	delete(s.saved, path)
	return nil
}

func (s *fakeStorage) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

// multipartHeader builds a real *multipart.FileHeader by round-tripping
// the content through a multipart form.
func multipartHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+(1<<20)))

	files := req.MultipartForm.File[field]
	require.Len(t, files, 1)
	return files[0]
}

// pngBytes is a minimal payload that http.DetectContentType reports as
// image/png.
func pngBytes(size int) []byte {
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if size < len(header) {
		size = len(header)
	}
	out := make([]byte, size)
	copy(out, header)
	return out
}

func str(s string) *string { return &s }

func seededCalendar(t *testing.T, repo *fakeCalendarRepo, dayRepo *fakeDayRepo, ownerID string, public bool) *model.Calendar {
	t.Helper()

	calendar := &model.Calendar{
		ID:        uuid.New().String(),
		CreatorID: ownerID,
		Title:     model.DefaultCalendarTitle,
		ShareCode: fmt.Sprintf("code-%s", ownerID),
		IsPublic:  public,
		Theme:     model.ThemeClassic,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(calendar))
	require.NoError(t, dayRepo.SeedDays(calendar.ID, missingDayNumbers(nil)))
	return calendar
}
