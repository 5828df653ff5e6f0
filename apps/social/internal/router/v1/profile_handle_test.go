package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/consts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileHTTPService struct {
	getProfileCardFn func(context.Context, string, *dto.GetProfileCardRequest) (*dto.ProfileCard, error)
}

func (f *fakeProfileHTTPService) GetProfileCard(ctx context.Context, viewerUUID string, req *dto.GetProfileCardRequest) (*dto.ProfileCard, error) {
	if f.getProfileCardFn == nil {
		return &dto.ProfileCard{}, nil
	}
	return f.getProfileCardFn(ctx, viewerUUID, req)
}

func TestProfileHandlerGetProfileCard(t *testing.T) {
	initHandlerLogger()

	svc := &fakeProfileHTTPService{
		getProfileCardFn: func(_ context.Context, viewerUUID string, req *dto.GetProfileCardRequest) (*dto.ProfileCard, error) {
			assert.Equal(t, "u1", viewerUUID)
			assert.Equal(t, "u2", req.TargetUUID)
			return &dto.ProfileCard{
				UUID:           "u2",
				Username:       "bob",
				RelationStatus: string(consts.RelationFollowing),
			}, nil
		},
	}
	h := NewProfileHandler(svc)

	c, w := newTestContext(t, newJSONRequest(t, http.MethodGet, "/api/v1/profile/card?targetUuid=u2", ""), "u1")
	h.GetProfileCard(c)

	body := decodeHandlerBody(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(consts.CodeSuccess), body.Code)

	var card dto.ProfileCard
	require.NoError(t, json.Unmarshal(body.Data, &card))
	assert.Equal(t, "bob", card.Username)
	assert.Equal(t, string(consts.RelationFollowing), card.RelationStatus)
}

func TestProfileHandlerGetProfileCardErrors(t *testing.T) {
	initHandlerLogger()

	t.Run("missing_target", func(t *testing.T) {
		h := NewProfileHandler(&fakeProfileHTTPService{})

		c, w := newTestContext(t, newJSONRequest(t, http.MethodGet, "/api/v1/profile/card", ""), "u1")
		h.GetProfileCard(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int32(consts.CodeParamError), decodeHandlerBody(t, w).Code)
	})

	t.Run("user_not_found", func(t *testing.T) {
		svc := &fakeProfileHTTPService{
			getProfileCardFn: func(_ context.Context, _ string, _ *dto.GetProfileCardRequest) (*dto.ProfileCard, error) {
				return nil, utils.NewBizError(consts.CodeUserNotFound)
			},
		}
		h := NewProfileHandler(svc)

		c, w := newTestContext(t, newJSONRequest(t, http.MethodGet, "/api/v1/profile/card?targetUuid=ghost", ""), "u1")
		h.GetProfileCard(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int32(consts.CodeUserNotFound), decodeHandlerBody(t, w).Code)
	})
}
