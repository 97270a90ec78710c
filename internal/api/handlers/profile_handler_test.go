package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
	"github.com/devconnect/backend/internal/utils"
)

// MockProfileService is a mock implementation of services.ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateOrUpdate(ctx context.Context, userID primitive.ObjectID, in services.ProfileInput) (*models.Profile, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetMe(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileView), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context) ([]models.ProfileView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProfileView), args.Error(1)
}

func (m *MockProfileService) GetByUser(ctx context.Context, targetID primitive.ObjectID) (*models.ProfileView, error) {
	args := m.Called(ctx, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileView), args.Error(1)
}

func (m *MockProfileService) DeleteWithUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileService) AddExperience(ctx context.Context, userID primitive.ObjectID, in services.ExperienceInput) (*models.Profile, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) ReplaceExperience(ctx context.Context, userID, expID primitive.ObjectID, in services.ExperienceInput) (*models.Profile, error) {
	args := m.Called(ctx, userID, expID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) RemoveExperience(ctx context.Context, userID, expID primitive.ObjectID) error {
	args := m.Called(ctx, userID, expID)
	return args.Error(0)
}

// setupProfileRouter wires the handler behind a stub auth middleware that
// injects userID the way JWTAuth would after verifying a token.
func setupProfileRouter(userID primitive.ObjectID) (*gin.Engine, *MockProfileService) {
	gin.SetMode(gin.TestMode)

	svc := new(MockProfileService)
	h := NewProfileHandler(svc)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/profile", h.List)
	api.GET("/profile/user/:user_id", h.GetByUser)

	auth := api.Group("/")
	auth.Use(func(c *gin.Context) {
		c.Set("user_id", userID.Hex())
		c.Next()
	})
	auth.GET("/profile/me", h.Me)
	auth.POST("/profile", h.Upsert)
	auth.DELETE("/profile", h.Delete)
	auth.POST("/profile/experience", h.AddExperience)
	auth.PUT("/profile/experience/:exp_id", h.ReplaceExperience)
	auth.DELETE("/profile/experience/:exp_id", h.RemoveExperience)

	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfileHandler_Upsert(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("fresh profile gets created with parsed skills", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		created := &models.Profile{
			ID:     primitive.NewObjectID(),
			User:   userID,
			Status: "Developer",
			Skills: []string{"js", "go"},
		}
		svc.On("CreateOrUpdate", mock.Anything, userID, mock.MatchedBy(func(in services.ProfileInput) bool {
			return in.Status != nil && *in.Status == "Developer" &&
				in.Skills != nil && *in.Skills == "js,go"
		})).Return(created, nil).Once()

		w := doJSON(t, r, http.MethodPost, "/api/profile", `{"status":"Developer","skills":"js,go"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []any{"js", "go"}, got["skills"])
		assert.Equal(t, map[string]any{}, got["social"])
		svc.AssertExpectations(t)
	})

	t.Run("validation errors carry field messages", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		svc.On("CreateOrUpdate", mock.Anything, userID, mock.Anything).
			Return(nil, utils.Ev("ProfileService.CreateOrUpdate",
				utils.FieldError{Field: "status", Message: "status is required"},
				utils.FieldError{Field: "skills", Message: "skills is required"},
			)).Once()

		w := doJSON(t, r, http.MethodPost, "/api/profile", `{"company":"Acme"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, utils.CodeInvalidArgument, resp.Code)
		require.Len(t, resp.Errors, 2)
		assert.Equal(t, "status", resp.Errors[0].Field)
		svc.AssertExpectations(t)
	})
}

func TestProfileHandler_GetByUser(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("malformed id is rejected before the service runs", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		w := doJSON(t, r, http.MethodGet, "/api/profile/user/not-a-hex-id", "")
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, utils.CodeInvalidArgument, resp.Code)
		svc.AssertNotCalled(t, "GetByUser")
	})

	t.Run("well-formed but absent id is not found", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		target := primitive.NewObjectID()
		svc.On("GetByUser", mock.Anything, target).
			Return(nil, utils.E(utils.CodeNotFound, "ProfileService.GetByUser", "profile not found", nil)).Once()

		w := doJSON(t, r, http.MethodGet, "/api/profile/user/"+target.Hex(), "")
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, utils.CodeNotFound, resp.Code)
		svc.AssertExpectations(t)
	})
}

func TestProfileHandler_List(t *testing.T) {
	userID := primitive.NewObjectID()
	r, svc := setupProfileRouter(userID)

	svc.On("List", mock.Anything).Return([]models.ProfileView{}, nil).Once()

	w := doJSON(t, r, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	svc.AssertExpectations(t)
}

func TestProfileHandler_Delete(t *testing.T) {
	userID := primitive.NewObjectID()
	r, svc := setupProfileRouter(userID)

	svc.On("DeleteWithUser", mock.Anything, userID).Return(nil).Once()

	w := doJSON(t, r, http.MethodDelete, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user and profile deleted")
	svc.AssertExpectations(t)
}

func TestProfileHandler_Experience(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("add parses date-only from", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		svc.On("AddExperience", mock.Anything, userID, mock.MatchedBy(func(in services.ExperienceInput) bool {
			return in.Title == "Engineer" && in.From.Year() == 2019 && in.From.Month() == 6
		})).Return(&models.Profile{User: userID}, nil).Once()

		w := doJSON(t, r, http.MethodPost, "/api/profile/experience",
			`{"title":"Engineer","company":"Acme","from":"2019-06-01"}`)
		require.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad from date", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		w := doJSON(t, r, http.MethodPost, "/api/profile/experience",
			`{"title":"Engineer","company":"Acme","from":"June 2019"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddExperience")
	})

	t.Run("replace with malformed id", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		w := doJSON(t, r, http.MethodPut, "/api/profile/experience/nope",
			`{"title":"Engineer","company":"Acme","from":"2019-06-01"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ReplaceExperience")
	})

	t.Run("remove unknown id is a distinct not-found", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		expID := primitive.NewObjectID()
		svc.On("RemoveExperience", mock.Anything, userID, expID).
			Return(utils.E(utils.CodeNotFound, "ProfileService.RemoveExperience", "experience not found", nil)).Once()

		w := doJSON(t, r, http.MethodDelete, "/api/profile/experience/"+expID.Hex(), "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "experience not found")
		svc.AssertExpectations(t)
	})

	t.Run("remove ack", func(t *testing.T) {
		r, svc := setupProfileRouter(userID)

		expID := primitive.NewObjectID()
		svc.On("RemoveExperience", mock.Anything, userID, expID).Return(nil).Once()

		w := doJSON(t, r, http.MethodDelete, "/api/profile/experience/"+expID.Hex(), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "experience removed")
		svc.AssertExpectations(t)
	})
}
