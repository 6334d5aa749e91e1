package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/auth"
	"github.com/noah-isme/idcard-api/internal/events"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
	"github.com/noah-isme/idcard-api/internal/session"
)

func TestMain(m *testing.M) {
	auth.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, server
}

func setupCart(t *testing.T) *session.CartStore {
	t.Helper()
	client, _ := setupRedis(t)
	return session.NewCartStore(client, time.Hour)
}

// fixture is a school with its admin and one catalog class.
type fixture struct {
	db      *gorm.DB
	owner   models.User
	school  models.School
	class   models.Class
	actor   Actor
	section models.Section
}

func newFixture(t *testing.T, db *gorm.DB, schoolName string) fixture {
	t.Helper()
	ctx := context.Background()

	owner := models.User{
		Name:         schoolName + " Admin",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Role:         models.RoleSchoolAdmin,
	}
	school := models.School{Name: schoolName}
	require.NoError(t, repository.NewSchoolRepository(db).CreateWithOwner(ctx, &owner, &school))

	classes := repository.NewClassRepository(db)
	class, _, err := classes.EnsureCatalogClass(ctx, "5")
	require.NoError(t, err)
	section, _, err := classes.EnsureSection(ctx, class.ID, "A")
	require.NoError(t, err)

	return fixture{
		db:      db,
		owner:   owner,
		school:  school,
		class:   class,
		section: section,
		actor:   Actor{UserID: owner.ID, Role: models.RoleSchoolAdmin, SchoolID: school.ID},
	}
}

func (f fixture) addStudent(t *testing.T, name string, status models.StudentStatus) models.Student {
	t.Helper()
	classID := f.class.ID
	student := models.Student{
		SchoolID:      f.school.ID,
		ClassID:       &classID,
		Name:          name,
		DOB:           time.Date(2016, 6, 1, 0, 0, 0, 0, time.UTC),
		FatherName:    "Father of " + name,
		Address:       "12 Lake View",
		ContactNumber: "9876543210",
		Status:        status,
	}
	require.NoError(t, repository.NewStudentRepository(f.db).Create(context.Background(), &student))
	return student
}

func (f fixture) status(t *testing.T, id string) models.StudentStatus {
	t.Helper()
	student, err := repository.NewStudentRepository(f.db).GetForSchool(context.Background(), f.school.ID, id)
	require.NoError(t, err)
	return student.Status
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[name] = data
	return "https://cdn.example.com/" + name, nil
}

type recordingPublisher struct {
	published []events.PrintCompleted
}

func (p *recordingPublisher) PublishPrintCompleted(_ context.Context, event events.PrintCompleted) error {
	p.published = append(p.published, event)
	return nil
}

// failingMarkRepo fails the bulk print update while delegating everything else.
type failingMarkRepo struct {
	repository.StudentRepository
}

var errMarkFailed = errors.New("database unavailable")

func (failingMarkRepo) MarkPrinted(context.Context, []string) (int64, error) {
	return 0, errMarkFailed
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 120, B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
