package service_test

import (
	"context"
	"net/http"
	"testing"
	"travelnest/config"
	"travelnest/infras/otel/mocks"
	"travelnest/internal/domains/user/model/dto"
	"travelnest/internal/domains/user/repository"
	"travelnest/internal/domains/user/service"
	"travelnest/shared/constant"
	gDto "travelnest/shared/dto"
	"travelnest/shared/failure"
	"travelnest/shared/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 1

func newService(t *testing.T) (service.User, *testkit.Fixture) {
	t.Helper()

	db := testkit.NewDB(t)
	redisCache, _ := testkit.NewCache(t)
	otl := mocks.NewOtel()

	fixture := testkit.NewFixture(t, db)
	fixture.User(adminID, "root@travelnest.io", constant.RoleAdmin, "Secret@1")
	fixture.User(2, "ayu@travelnest.io", constant.RoleUser, "Secret@1")
	fixture.User(3, "ben@example.com", constant.RoleUser, "Secret@1")

	return service.New(repository.New(db, otl), &config.Config{}, redisCache, otl), fixture
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, adminID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

	return context.WithValue(ctx, constant.ContextKeyUserEmail, "root@travelnest.io")
}

func TestUserService_GetAll(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.GetAll(adminContext(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)

	res, err = svc.GetAll(adminContext(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{Search: "TRAVELNEST"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)

	res, err = svc.GetAll(adminContext(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListParams{Role: constant.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "root@travelnest.io", res.Users[0].Email)
}

func TestUserService_Get(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.Get(adminContext(), 2)
	require.NoError(t, err)
	assert.Equal(t, "ayu@travelnest.io", res.Email)
	assert.Equal(t, constant.RoleUser, res.Role)

	_, err = svc.Get(adminContext(), 99)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestUserService_UpdateRole(t *testing.T) {
	svc, fixture := newService(t)

	require.NoError(t, svc.UpdateRole(adminContext(), dto.UpdateRoleRequest{Role: constant.RoleAdmin}, 2))
	assert.Equal(t, int64(1), fixture.Int64("SELECT COUNT(*) FROM users WHERE id = 2 AND role = 'admin' AND modified_by = 'root@travelnest.io'"))

	err := svc.UpdateRole(adminContext(), dto.UpdateRoleRequest{Role: constant.RoleUser}, adminID)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = svc.UpdateRole(adminContext(), dto.UpdateRoleRequest{Role: constant.RoleUser}, 99)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestUserService_Delete(t *testing.T) {
	svc, fixture := newService(t)
	fixture.Destination(1, "Bali", "Indonesia")
	fixture.Hotel(1, 1, "Ubud Retreat", 120, 4.6)
	fixture.Room(1, 1, "double", 150, 2)
	fixture.Booking(1, 2, 1, "confirmed")
	fixture.Review(2, 1, 5, "great")

	require.NoError(t, svc.Delete(adminContext(), 2))
	assert.Zero(t, fixture.Int64("SELECT COUNT(*) FROM users WHERE id = 2"))
	assert.Zero(t, fixture.Int64("SELECT COUNT(*) FROM bookings"))
	assert.Zero(t, fixture.Int64("SELECT COUNT(*) FROM reviews"))

	err := svc.Delete(adminContext(), 2)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = svc.Delete(adminContext(), adminID)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
