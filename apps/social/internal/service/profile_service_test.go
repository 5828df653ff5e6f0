package service

import (
	"context"
	"errors"
	"testing"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/consts"
	"CommunityServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileCard(t *testing.T) {
	initRelationTestLogger()

	profileRepo := &fakeProfileRepository{
		getByUUIDFn: func(ctx context.Context, uuid string) (*model.Profile, error) {
			return &model.Profile{
				ID:       uuid,
				Username: "alice",
				FullName: "Alice L",
				City:     "Shenzhen",
			}, nil
		},
	}
	followRepo := &fakeFollowRepository{
		hasFollowFn: func(ctx context.Context, viewerUUID, subjectUUID string) (bool, error) {
			return true, nil
		},
	}
	relationService := newRelationServiceForTest(followRepo, nil, profileRepo)

	svc := NewProfileService(profileRepo, relationService)
	card, err := svc.GetProfileCard(context.Background(), "u1", &dto.GetProfileCardRequest{TargetUUID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, "u2", card.UUID)
	assert.Equal(t, "alice", card.Username)
	assert.Equal(t, string(consts.RelationFollowing), card.RelationStatus)
}

func TestGetProfileCardGuestViewer(t *testing.T) {
	initRelationTestLogger()

	svc := NewProfileService(&fakeProfileRepository{}, newRelationServiceForTest(nil, nil, nil))
	card, err := svc.GetProfileCard(context.Background(), "", &dto.GetProfileCardRequest{TargetUUID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, string(consts.RelationGuest), card.RelationStatus)
}

func TestGetProfileCardUserNotFound(t *testing.T) {
	initRelationTestLogger()

	profileRepo := &fakeProfileRepository{
		getByUUIDFn: func(ctx context.Context, uuid string) (*model.Profile, error) {
			return nil, nil
		},
	}
	svc := NewProfileService(profileRepo, newRelationServiceForTest(nil, nil, profileRepo))
	_, err := svc.GetProfileCard(context.Background(), "u1", &dto.GetProfileCardRequest{TargetUUID: "ghost"})
	requireBizCode(t, err, consts.CodeUserNotFound)
}

func TestGetProfileCardRelationDegradesToNone(t *testing.T) {
	initRelationTestLogger()

	followRepo := &fakeFollowRepository{
		hasFollowFn: func(ctx context.Context, viewerUUID, subjectUUID string) (bool, error) {
			return false, errors.New("db down")
		},
	}
	svc := NewProfileService(&fakeProfileRepository{}, newRelationServiceForTest(followRepo, nil, nil))
	card, err := svc.GetProfileCard(context.Background(), "u1", &dto.GetProfileCardRequest{TargetUUID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, string(consts.RelationNone), card.RelationStatus)
}
