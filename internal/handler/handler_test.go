package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courseware/internal/auth"
	"courseware/internal/config"
	"courseware/internal/handler"
	"courseware/internal/model"
	"courseware/internal/repository"
	"courseware/internal/router"
	"courseware/internal/service"
)

const testSecret = "test-secret"

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[uint]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *fakeUserRepo) SyncProfiles(_ context.Context, _ *model.User) error {
	return nil
}

// fakeCategoryRepo is an in-memory CategoryRepository.
type fakeCategoryRepo struct {
	nextID     uint
	categories map[uint]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1, categories: map[uint]*model.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	category.ID = r.nextID
	r.nextID++
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *model.Category) error {
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uint) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, category := range r.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// fakeCourseRepo is an in-memory CourseRepository. It reads the lesson
// store to mirror the search across lesson item numbers.
type fakeCourseRepo struct {
	nextID  uint
	courses map[uint]*model.Course
	lessons *fakeLessonRepo
}

func newFakeCourseRepo(lessons *fakeLessonRepo) *fakeCourseRepo {
	return &fakeCourseRepo{nextID: 1, courses: map[uint]*model.Course{}, lessons: lessons}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *model.Course) error {
	course.ID = r.nextID
	r.nextID++
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *model.Course) error {
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id uint) error {
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id uint) (*model.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *course
	return &clone, nil
}

func (r *fakeCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	out := make([]model.Course, 0, len(r.courses))
	for _, course := range r.courses {
		if filter.CategoryID != nil && (course.CategoryID == nil || *course.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(course.Title, filter.Search) &&
			!r.lessonItemMatches(course.ID, filter.Search) {
			continue
		}
		out = append(out, *course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeCourseRepo) lessonItemMatches(courseID uint, search string) bool {
	for _, lesson := range r.lessons.lessons {
		for _, course := range lesson.Courses {
			if course.ID == courseID && strings.Contains(strconv.Itoa(lesson.Item), search) {
				return true
			}
		}
	}
	return false
}

// fakeLessonRepo is an in-memory LessonRepository.
type fakeLessonRepo struct {
	nextID  uint
	lessons map[uint]*model.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{nextID: 1, lessons: map[uint]*model.Lesson{}}
}

func (r *fakeLessonRepo) Create(_ context.Context, lesson *model.Lesson) error {
	lesson.ID = r.nextID
	r.nextID++
	clone := *lesson
	r.lessons[lesson.ID] = &clone
	return nil
}

func (r *fakeLessonRepo) Update(_ context.Context, lesson *model.Lesson) error {
	clone := *lesson
	r.lessons[lesson.ID] = &clone
	return nil
}

func (r *fakeLessonRepo) Delete(_ context.Context, id uint) error {
	delete(r.lessons, id)
	return nil
}

func (r *fakeLessonRepo) FindByID(_ context.Context, id uint) (*model.Lesson, error) {
	lesson, ok := r.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *lesson
	return &clone, nil
}

func (r *fakeLessonRepo) List(_ context.Context, filter repository.LessonFilter) ([]model.Lesson, error) {
	out := make([]model.Lesson, 0, len(r.lessons))
	for _, lesson := range r.lessons {
		if filter.CourseID != nil && !lessonInCourse(lesson, *filter.CourseID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(lesson.Title, filter.Search) {
			continue
		}
		out = append(out, *lesson)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func lessonInCourse(lesson *model.Lesson, courseID uint) bool {
	for _, course := range lesson.Courses {
		if course.ID == courseID {
			return true
		}
	}
	return false
}

// fakeSlideRepo is an in-memory SlideRepository.
type fakeSlideRepo struct {
	nextID uint
	slides map[uint]*model.Slide
}

func newFakeSlideRepo() *fakeSlideRepo {
	return &fakeSlideRepo{nextID: 1, slides: map[uint]*model.Slide{}}
}

func (r *fakeSlideRepo) Create(_ context.Context, slide *model.Slide) error {
	slide.ID = r.nextID
	r.nextID++
	clone := *slide
	r.slides[slide.ID] = &clone
	return nil
}

func (r *fakeSlideRepo) Update(_ context.Context, slide *model.Slide) error {
	clone := *slide
	r.slides[slide.ID] = &clone
	return nil
}

func (r *fakeSlideRepo) Delete(_ context.Context, lessonID uint, position int) error {
	for id, slide := range r.slides {
		if slide.LessonID != nil && *slide.LessonID == lessonID && slide.Position == position {
			delete(r.slides, id)
		}
	}
	return nil
}

func (r *fakeSlideRepo) FindByPosition(_ context.Context, lessonID uint, position int) (*model.Slide, error) {
	for _, slide := range r.slides {
		if slide.LessonID != nil && *slide.LessonID == lessonID && slide.Position == position {
			clone := *slide
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSlideRepo) ListByLesson(_ context.Context, lessonID uint) ([]model.Slide, error) {
	out := make([]model.Slide, 0)
	for _, slide := range r.slides {
		if slide.LessonID != nil && *slide.LessonID == lessonID {
			out = append(out, *slide)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// testServer bundles a fully wired echo instance over in-memory stores.
type testServer struct {
	e          *echo.Echo
	jwtService *auth.JWTService
	userRepo   *fakeUserRepo
	lessonRepo *fakeLessonRepo
}

func newTestServer(t *testing.T, strictForbidden bool) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 4 * time.Hour,
		StrictForbidden: strictForbidden,
	}

	userRepo := newFakeUserRepo()
	categoryRepo := newFakeCategoryRepo()
	lessonRepo := newFakeLessonRepo()
	courseRepo := newFakeCourseRepo(lessonRepo)
	slideRepo := newFakeSlideRepo()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, nil)
	courseService := service.NewCourseService(courseRepo, nil)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)
	slideService := service.NewSlideService(slideRepo, lessonRepo)

	e := echo.New()
	router.Register(
		e,
		cfg,
		handler.NewAuthHandler(authService, cfg.RefreshTokenTTL),
		handler.NewUserHandler(userService),
		handler.NewCategoryHandler(categoryService),
		handler.NewCourseHandler(courseService),
		handler.NewLessonHandler(lessonService),
		handler.NewSlideHandler(slideService),
	)

	return &testServer{
		e:          e,
		jwtService: jwtService,
		userRepo:   userRepo,
		lessonRepo: lessonRepo,
	}
}

// addUser stores a user with a bcrypt hash of the given password and
// returns it.
func (s *testServer) addUser(t *testing.T, email, password string, mutate func(*model.User)) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    "Test",
		LastName:     "User",
		IsStudent:    true,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(user)
	}
	if err := s.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// accessToken mints a valid access token for the user.
func (s *testServer) accessToken(t *testing.T, user *model.User) string {
	t.Helper()

	token, err := s.jwtService.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	return token
}

// newExpiredAccessToken mints an access token whose expiry already passed,
// signed with the server secret.
func newExpiredAccessToken(t *testing.T, user *model.User) string {
	t.Helper()

	token, err := auth.NewJWTService(testSecret, -time.Minute, -time.Minute).IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	return token
}

// do performs a request against the wired router.
func (s *testServer) do(method, path, body, bearer string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// refreshCookieFrom extracts the jwt cookie from a response, if set.
func refreshCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	res := http.Response{Header: rec.Header()}
	for _, cookie := range res.Cookies() {
		if cookie.Name == handler.RefreshCookieName {
			return cookie
		}
	}
	return nil
}
