package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

func TestSettingsServiceUpdatesSchool(t *testing.T) {
	db := setupServiceDB(t)
	f := newFixture(t, db, "Old Name")
	storage := newFakeStorage()
	activity := &memoryActivityRepo{}
	svc := NewSettingsService(
		repository.NewUserRepository(db),
		repository.NewSchoolRepository(db),
		NewMediaService(storage, 5, testLogger()),
		testValidator(),
		NewActivityService(activity, testLogger()),
		testLogger(),
	)
	ctx := context.Background()

	settings, err := svc.Settings(ctx, f.actor)
	require.NoError(t, err)
	require.NotNil(t, settings.School)
	require.Equal(t, models.DefaultTemplate, settings.School.SelectedTemplate)
	require.Len(t, settings.Templates, len(models.CardTemplates))

	updated, err := svc.UpdateSchool(ctx, f.actor, dto.SchoolUpdateRequest{
		Name:    "New <i>Name</i>",
		Address: "22 Ring Road",
		Pincode: "110001",
		State:   "Delhi",
	}, &ImageUpload{Name: "crest.png", Data: pngImage(t, 64, 64)})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "Delhi", updated.State)
	require.Equal(t, "https://cdn.example.com/crest.png", updated.LogoURL)

	signed, err := svc.UploadSignature(ctx, f.actor, &ImageUpload{Name: "sign.png", Data: pngImage(t, 80, 20)})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/sign.png", signed.SignatureURL)
	require.Equal(t, "https://cdn.example.com/crest.png", signed.LogoURL)

	templated, err := svc.SelectTemplate(ctx, f.actor, "template3")
	require.NoError(t, err)
	require.Equal(t, "template3", templated.SelectedTemplate)

	_, err = svc.SelectTemplate(ctx, f.actor, "template9")
	require.ErrorIs(t, err, ErrInvalidTemplate)

	require.Len(t, activity.entries, 3)
}

func TestSettingsServiceWithoutSchool(t *testing.T) {
	db := setupServiceDB(t)
	user := models.User{Name: "Lonely", Email: uuid.NewString() + "@example.com", PasswordHash: "hash", Role: models.RoleSchoolAdmin}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), &user))
	svc := NewSettingsService(
		repository.NewUserRepository(db),
		repository.NewSchoolRepository(db),
		NewMediaService(newFakeStorage(), 5, testLogger()),
		testValidator(),
		nil,
		testLogger(),
	)
	actor := Actor{UserID: user.ID, Role: models.RoleSchoolAdmin}

	settings, err := svc.Settings(context.Background(), actor)
	require.NoError(t, err)
	require.Nil(t, settings.School)
	require.Equal(t, "Lonely", settings.User.Name)

	_, err = svc.SelectTemplate(context.Background(), actor, "template1")
	require.ErrorIs(t, err, ErrSchoolNotFound)
}
