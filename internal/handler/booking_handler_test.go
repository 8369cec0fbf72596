package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shareit-platform/service-sharing/internal/application"
	itemDomain "github.com/shareit-platform/service-sharing/internal/domain/item"
	userDomain "github.com/shareit-platform/service-sharing/internal/domain/user"
	"github.com/shareit-platform/service-sharing/internal/repository"
	"github.com/shareit-platform/service-sharing/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var handlerNow = time.Now().UTC()

// testServer wires the full HTTP surface against sqlite-backed services.
type testServer struct {
	router *gin.Engine
	users  *repository.GormUserRepository
	items  *repository.GormItemRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.ItemModel{},
		&repository.BookingModel{},
		&repository.CommentModel{},
	))

	users := repository.NewGormUserRepository(db)
	items := repository.NewGormItemRepository(db)
	bookings := repository.NewGormBookingRepository(db)
	comments := repository.NewGormCommentRepository(db)
	log := zap.NewNop()
	clock := func() time.Time { return handlerNow }

	bookingSvc := application.NewBookingService(bookings, items, users, nil, log, clock)
	itemSvc := application.NewItemService(items, comments, users, bookings, log, clock)
	userSvc := application.NewUserService(users, log)

	router := gin.New()
	NewBookingHandler(bookingSvc).RegisterRoutes(&router.RouterGroup)
	NewItemHandler(itemSvc).RegisterRoutes(&router.RouterGroup)
	NewUserHandler(userSvc).RegisterRoutes(&router.RouterGroup)

	return &testServer{router: router, users: users, items: items}
}

func (s *testServer) createUser(t *testing.T, name, email string) uuid.UUID {
	t.Helper()
	u, err := userDomain.NewUser(name, email)
	require.NoError(t, err)
	require.NoError(t, s.users.Save(context.Background(), u))
	return u.ID()
}

func (s *testServer) createItem(t *testing.T, ownerID uuid.UUID, name string, available bool) uuid.UUID {
	t.Helper()
	it, err := itemDomain.NewItem(ownerID, name, name+" description", &available, nil)
	require.NoError(t, err)
	require.NoError(t, s.items.Save(context.Background(), it))
	return it.ID()
}

func (s *testServer) do(t *testing.T, method, path string, caller *uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req.Header.Set(middleware.HeaderCallerID, caller.String())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func bookingBody(itemID uuid.UUID, start, end time.Time) map[string]interface{} {
	return map[string]interface{}{
		"itemId": itemID,
		"start":  start.Format(time.RFC3339Nano),
		"end":    end.Format(time.RFC3339Nano),
	}
}

func TestRequestBookingEndpoint(t *testing.T) {
	s := newTestServer(t)
	ownerID := s.createUser(t, "owner", "owner@example.com")
	bookerID := s.createUser(t, "booker", "booker@example.com")
	itemID := s.createItem(t, ownerID, "Drill", true)

	start := handlerNow.Add(time.Hour)
	end := handlerNow.Add(2 * time.Hour)

	t.Run("missing caller header is 400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/bookings", nil, bookingBody(itemID, start, end))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("creates with 201", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/bookings", &bookerID, bookingBody(itemID, start, end))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var dto application.BookingDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, "WAITING", dto.Status)
		assert.Equal(t, itemID, dto.Item.ID)
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/bookings", &bookerID, bookingBody(uuid.New(), start, end))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner booking own item is 403", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/bookings", &ownerID, bookingBody(itemID, start, end))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("start in the past is 400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/bookings", &bookerID,
			bookingBody(itemID, handlerNow.Add(-time.Hour), end))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecideBookingEndpoint(t *testing.T) {
	s := newTestServer(t)
	ownerID := s.createUser(t, "owner", "owner@example.com")
	bookerID := s.createUser(t, "booker", "booker@example.com")
	itemID := s.createItem(t, ownerID, "Drill", true)

	create := func(t *testing.T) uuid.UUID {
		w := s.do(t, http.MethodPost, "/bookings", &bookerID,
			bookingBody(itemID, handlerNow.Add(time.Hour), handlerNow.Add(2*time.Hour)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var dto application.BookingDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		return dto.ID
	}

	t.Run("approve", func(t *testing.T) {
		id := create(t)
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s?approved=true", id), &ownerID, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var dto application.BookingDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, "APPROVED", dto.Status)

		// A second decision on an approved booking conflicts.
		w = s.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s?approved=false", id), &ownerID, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("booker deciding is 403", func(t *testing.T) {
		id := create(t)
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s?approved=true", id), &bookerID, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing approved query is 400", func(t *testing.T) {
		id := create(t)
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s", id), &ownerID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed booking id is 400", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/bookings/not-a-uuid?approved=true", &ownerID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown booking is 404", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%s?approved=true", uuid.New()), &ownerID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListBookingsEndpoint(t *testing.T) {
	s := newTestServer(t)
	ownerID := s.createUser(t, "owner", "owner@example.com")
	bookerID := s.createUser(t, "booker", "booker@example.com")
	itemID := s.createItem(t, ownerID, "Drill", true)

	w := s.do(t, http.MethodPost, "/bookings", &bookerID,
		bookingBody(itemID, handlerNow.Add(time.Hour), handlerNow.Add(2*time.Hour)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("defaults to ALL", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/bookings", &bookerID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var dtos []application.BookingDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		assert.Len(t, dtos, 1)
	})

	t.Run("owner view", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/bookings/owner?state=WAITING", &ownerID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var dtos []application.BookingDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		assert.Len(t, dtos, 1)
	})

	t.Run("unknown state is 400", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/bookings?state=BOGUS", &bookerID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Unknown state: BOGUS")
	})

	t.Run("non-integer paging is 400", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/bookings?from=abc", &bookerID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative from is 400", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/bookings?from=-1", &bookerID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		ghost := uuid.New()
		w := s.do(t, http.MethodGet, "/bookings", &ghost, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/users", nil, map[string]string{
		"name": "alice", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var alice application.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alice))

	t.Run("duplicate email is 409", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/users", nil, map[string]string{
			"name": "impostor", "email": "alice@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("get and patch", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/users/"+alice.ID.String(), nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPatch, "/users/"+alice.ID.String(), nil, map[string]string{"name": "alicia"})
		require.Equal(t, http.StatusOK, w.Code)
		var dto application.UserDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, "alicia", dto.Name)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/users/"+alice.ID.String(), nil, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, "/users/"+alice.ID.String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestItemEndpoints(t *testing.T) {
	s := newTestServer(t)
	ownerID := s.createUser(t, "owner", "owner@example.com")
	otherID := s.createUser(t, "other", "other@example.com")

	w := s.do(t, http.MethodPost, "/items", &ownerID, map[string]interface{}{
		"name": "Drill", "description": "cordless", "available": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created application.ItemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("missing caller header is 400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/items", nil, map[string]interface{}{
			"name": "X", "description": "Y", "available": true,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-owner patch is 403", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/items/"+created.ID.String(), &otherID,
			map[string]interface{}{"name": "Mine Now"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner listing", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/items", &ownerID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var dtos []application.ItemDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		assert.Len(t, dtos, 1)
	})

	t.Run("search", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/items/search?text=drill", &otherID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var dtos []application.ItemDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		assert.Len(t, dtos, 1)

		w = s.do(t, http.MethodGet, "/items/search?text=", &otherID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
		assert.Empty(t, dtos)
	})

	t.Run("comment without a finished booking is 400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/items/"+created.ID.String()+"/comment", &otherID,
			map[string]string{"text": "never used it"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
