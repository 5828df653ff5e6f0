package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/consts"
	"CommunityServer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRelationHTTPService struct {
	resolveRelationFn func(context.Context, string, string) (consts.RelationStatus, error)
	toggleRelationFn  func(context.Context, string, *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error)
	unreadCountFn     func(context.Context, string) (*dto.GetUnreadRequestCountResponse, error)
	markReadFn        func(context.Context, string) error
}

func (f *fakeRelationHTTPService) ResolveRelation(ctx context.Context, viewerUUID, targetUUID string) (consts.RelationStatus, error) {
	if f.resolveRelationFn == nil {
		return consts.RelationNone, nil
	}
	return f.resolveRelationFn(ctx, viewerUUID, targetUUID)
}

func (f *fakeRelationHTTPService) ToggleRelation(ctx context.Context, viewerUUID string, req *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error) {
	if f.toggleRelationFn == nil {
		return &dto.ToggleRelationResponse{}, nil
	}
	return f.toggleRelationFn(ctx, viewerUUID, req)
}

func (f *fakeRelationHTTPService) GetUnreadRequestCount(ctx context.Context, viewerUUID string) (*dto.GetUnreadRequestCountResponse, error) {
	if f.unreadCountFn == nil {
		return &dto.GetUnreadRequestCountResponse{}, nil
	}
	return f.unreadCountFn(ctx, viewerUUID)
}

func (f *fakeRelationHTTPService) MarkRequestsRead(ctx context.Context, viewerUUID string) error {
	if f.markReadFn == nil {
		return nil
	}
	return f.markReadFn(ctx, viewerUUID)
}

type handlerResultBody struct {
	Code int32           `json:"code"`
	Data json.RawMessage `json:"data"`
}

var handlerLoggerOnce sync.Once

func initHandlerLogger() {
	handlerLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		gin.SetMode(gin.TestMode)
	})
}

func decodeHandlerBody(t *testing.T, w *httptest.ResponseRecorder) handlerResultBody {
	t.Helper()
	var body handlerResultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newJSONRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newTestContext(t *testing.T, req *http.Request, viewerUUID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if viewerUUID != "" {
		c.Set("user_uuid", viewerUUID)
	}
	return c, w
}

func TestRelationHandlerGetRelationStatus(t *testing.T) {
	initHandlerLogger()

	tests := []struct {
		name     string
		target   string
		viewer   string
		setup    func(*fakeRelationHTTPService)
		wantCode int32
	}{
		{
			name:   "success",
			target: "/api/v1/relation/status?targetUuid=u2",
			viewer: "u1",
			setup: func(s *fakeRelationHTTPService) {
				s.resolveRelationFn = func(_ context.Context, viewerUUID, targetUUID string) (consts.RelationStatus, error) {
					assert.Equal(t, "u1", viewerUUID)
					assert.Equal(t, "u2", targetUUID)
					return consts.RelationFollowing, nil
				}
			},
			wantCode: consts.CodeSuccess,
		},
		{
			name:   "guest_viewer",
			target: "/api/v1/relation/status?targetUuid=u2",
			setup: func(s *fakeRelationHTTPService) {
				s.resolveRelationFn = func(_ context.Context, viewerUUID, _ string) (consts.RelationStatus, error) {
					assert.Equal(t, "", viewerUUID)
					return consts.RelationGuest, nil
				}
			},
			wantCode: consts.CodeSuccess,
		},
		{
			name:     "missing_target",
			target:   "/api/v1/relation/status",
			viewer:   "u1",
			setup:    func(s *fakeRelationHTTPService) {},
			wantCode: consts.CodeParamError,
		},
		{
			name:   "internal_error",
			target: "/api/v1/relation/status?targetUuid=u2",
			viewer: "u1",
			setup: func(s *fakeRelationHTTPService) {
				s.resolveRelationFn = func(_ context.Context, _, _ string) (consts.RelationStatus, error) {
					return "", errors.New("db down")
				}
			},
			wantCode: consts.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRelationHTTPService{}
			tt.setup(svc)
			h := NewRelationHandler(svc)

			c, w := newTestContext(t, newJSONRequest(t, http.MethodGet, tt.target, ""), tt.viewer)
			h.GetRelationStatus(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantCode, decodeHandlerBody(t, w).Code)
		})
	}
}

func TestRelationHandlerToggleRelation(t *testing.T) {
	initHandlerLogger()

	tests := []struct {
		name     string
		body     string
		setup    func(*fakeRelationHTTPService)
		wantCode int32
	}{
		{
			name: "success",
			body: `{"targetUuid":"u2","currentStatus":"none"}`,
			setup: func(s *fakeRelationHTTPService) {
				s.toggleRelationFn = func(_ context.Context, viewerUUID string, req *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error) {
					assert.Equal(t, "u1", viewerUUID)
					assert.Equal(t, "u2", req.TargetUUID)
					assert.Equal(t, string(consts.RelationNone), req.CurrentStatus)
					return &dto.ToggleRelationResponse{TargetUUID: "u2", Status: string(consts.RelationPendingSent)}, nil
				}
			},
			wantCode: consts.CodeSuccess,
		},
		{
			name:     "invalid_body",
			body:     `{`,
			setup:    func(s *fakeRelationHTTPService) {},
			wantCode: consts.CodeParamError,
		},
		{
			name:     "missing_current_status",
			body:     `{"targetUuid":"u2"}`,
			setup:    func(s *fakeRelationHTTPService) {},
			wantCode: consts.CodeParamError,
		},
		{
			name:     "unknown_current_status",
			body:     `{"targetUuid":"u2","currentStatus":"friend"}`,
			setup:    func(s *fakeRelationHTTPService) {},
			wantCode: consts.CodeParamError,
		},
		{
			name: "business_error",
			body: `{"targetUuid":"u1","currentStatus":"none"}`,
			setup: func(s *fakeRelationHTTPService) {
				s.toggleRelationFn = func(_ context.Context, _ string, _ *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error) {
					return nil, utils.NewBizError(consts.CodeRelationSelf)
				}
			},
			wantCode: consts.CodeRelationSelf,
		},
		{
			name: "internal_error",
			body: `{"targetUuid":"u2","currentStatus":"following"}`,
			setup: func(s *fakeRelationHTTPService) {
				s.toggleRelationFn = func(_ context.Context, _ string, _ *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error) {
					return nil, errors.New("db down")
				}
			},
			wantCode: consts.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRelationHTTPService{}
			tt.setup(svc)
			h := NewRelationHandler(svc)

			c, w := newTestContext(t, newJSONRequest(t, http.MethodPost, "/api/v1/relation/toggle", tt.body), "u1")
			h.ToggleRelation(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantCode, decodeHandlerBody(t, w).Code)
		})
	}
}

func TestRelationHandlerGetUnreadRequestCount(t *testing.T) {
	initHandlerLogger()

	svc := &fakeRelationHTTPService{
		unreadCountFn: func(_ context.Context, viewerUUID string) (*dto.GetUnreadRequestCountResponse, error) {
			assert.Equal(t, "u1", viewerUUID)
			return &dto.GetUnreadRequestCountResponse{Count: 3}, nil
		},
	}
	h := NewRelationHandler(svc)

	c, w := newTestContext(t, newJSONRequest(t, http.MethodGet, "/api/v1/relation/requests/unread", ""), "u1")
	h.GetUnreadRequestCount(c)

	body := decodeHandlerBody(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(consts.CodeSuccess), body.Code)

	var data dto.GetUnreadRequestCountResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, int64(3), data.Count)
}

func TestRelationHandlerMarkRequestsRead(t *testing.T) {
	initHandlerLogger()

	called := false
	svc := &fakeRelationHTTPService{
		markReadFn: func(_ context.Context, viewerUUID string) error {
			called = true
			assert.Equal(t, "u1", viewerUUID)
			return nil
		},
	}
	h := NewRelationHandler(svc)

	c, w := newTestContext(t, newJSONRequest(t, http.MethodPost, "/api/v1/relation/requests/read", ""), "u1")
	h.MarkRequestsRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(consts.CodeSuccess), decodeHandlerBody(t, w).Code)
	assert.True(t, called)
}
