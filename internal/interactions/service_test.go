package interactions

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type fakeInteractionRepo struct {
	likes    []models.Like
	comments []models.Comment
}

func sameTarget(activityID *uuid.UUID, videoID *string, target Target) bool {
	if target.ActivityID != nil {
		return activityID != nil && *activityID == *target.ActivityID
	}
	return videoID != nil && *videoID == *target.VideoID
}

func (f *fakeInteractionRepo) CreateLike(_ context.Context, like *models.Like) error {
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	f.likes = append(f.likes, *like)
	return nil
}

func (f *fakeInteractionRepo) FindLike(_ context.Context, userID uuid.UUID, target Target) (*models.Like, error) {
	for i := range f.likes {
		if f.likes[i].UserID == userID && sameTarget(f.likes[i].ActivityID, f.likes[i].VideoID, target) {
			return &f.likes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInteractionRepo) DeleteLike(_ context.Context, id uuid.UUID) error {
	kept := f.likes[:0]
	for _, like := range f.likes {
		if like.ID != id {
			kept = append(kept, like)
		}
	}
	f.likes = kept
	return nil
}

func (f *fakeInteractionRepo) CountLikes(_ context.Context, target Target) (int64, error) {
	var count int64
	for _, like := range f.likes {
		if sameTarget(like.ActivityID, like.VideoID, target) {
			count++
		}
	}
	return count, nil
}

func (f *fakeInteractionRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeInteractionRepo) FindCommentByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	for i := range f.comments {
		if f.comments[i].ID == id {
			return &f.comments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInteractionRepo) DeleteComment(_ context.Context, id uuid.UUID) error {
	kept := f.comments[:0]
	for _, comment := range f.comments {
		if comment.ID != id {
			kept = append(kept, comment)
		}
	}
	f.comments = kept
	return nil
}

func (f *fakeInteractionRepo) ListComments(_ context.Context, target Target) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range f.comments {
		if sameTarget(comment.ActivityID, comment.VideoID, target) {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (f *fakeInteractionRepo) CountComments(_ context.Context, target Target) (int64, error) {
	var count int64
	for _, comment := range f.comments {
		if sameTarget(comment.ActivityID, comment.VideoID, target) {
			count++
		}
	}
	return count, nil
}

func (f *fakeInteractionRepo) CountByActivity(_ context.Context, activityIDs []uuid.UUID) (map[uuid.UUID]TargetCounts, error) {
	out := map[uuid.UUID]TargetCounts{}
	for _, id := range activityIDs {
		target := Target{ActivityID: &id}
		likes, _ := f.CountLikes(context.Background(), target)
		comments, _ := f.CountComments(context.Background(), target)
		if likes > 0 || comments > 0 {
			out[id] = TargetCounts{Likes: likes, Comments: comments}
		}
	}
	return out, nil
}

type fakeActivityChecker struct {
	known map[uuid.UUID]bool
}

func (f *fakeActivityChecker) FindByID(_ context.Context, id uuid.UUID) (*models.Activity, error) {
	if f.known[id] {
		return &models.Activity{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAwarder struct {
	points int
}

func (f *fakeAwarder) AwardExp(_ context.Context, _ uuid.UUID, points int) error {
	f.points += points
	return nil
}

func testService(t *testing.T, repo *fakeInteractionRepo, checker *fakeActivityChecker, exp *fakeAwarder) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	params := ServiceParams{Repo: repo, Logger: logg}
	if checker != nil {
		params.Activities = checker
	}
	if exp != nil {
		params.Exp = exp
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func strptr(s string) *string { return &s }

func TestTargetRequiresExactlyOneSide(t *testing.T) {
	repo := &fakeInteractionRepo{}
	svc := testService(t, repo, nil, nil)
	userID := uuid.New()
	activityID := uuid.New()

	_, err := svc.ToggleLike(context.Background(), userID, Target{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ToggleLike(context.Background(), userID, Target{
		ActivityID: &activityID,
		VideoID:    strptr("vid-1"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestToggleLikeFlipsState(t *testing.T) {
	repo := &fakeInteractionRepo{}
	svc := testService(t, repo, nil, nil)
	userID := uuid.New()
	target := Target{VideoID: strptr("vid-42")}

	liked, err := svc.ToggleLike(context.Background(), userID, target)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Len(t, repo.likes, 1)

	liked, err = svc.ToggleLike(context.Background(), userID, target)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, repo.likes)
}

func TestLikeUnknownActivityFails(t *testing.T) {
	repo := &fakeInteractionRepo{}
	checker := &fakeActivityChecker{known: map[uuid.UUID]bool{}}
	svc := testService(t, repo, checker, nil)
	unknownID := uuid.New()

	_, err := svc.ToggleLike(context.Background(), uuid.New(), Target{ActivityID: &unknownID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateCommentAwardsExp(t *testing.T) {
	repo := &fakeInteractionRepo{}
	exp := &fakeAwarder{}
	activityID := uuid.New()
	checker := &fakeActivityChecker{known: map[uuid.UUID]bool{activityID: true}}
	svc := testService(t, repo, checker, exp)

	comment, err := svc.CreateComment(context.Background(), uuid.New(), CommentRequest{
		Target:  Target{ActivityID: &activityID},
		Content: "Mantap viewnya!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mantap viewnya!", comment.Content)
	assert.Equal(t, 1, exp.points)
}

func TestDeleteCommentAuthorOrAdminOnly(t *testing.T) {
	repo := &fakeInteractionRepo{}
	svc := testService(t, repo, nil, nil)
	authorID := uuid.New()

	comment, err := svc.CreateComment(context.Background(), authorID, CommentRequest{
		Target:  Target{VideoID: strptr("vid-7")},
		Content: "first",
	})
	require.NoError(t, err)

	err = svc.DeleteComment(context.Background(), uuid.New(), false, comment.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeleteComment(context.Background(), uuid.New(), true, comment.ID))

	comment, err = svc.CreateComment(context.Background(), authorID, CommentRequest{
		Target:  Target{VideoID: strptr("vid-7")},
		Content: "second",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteComment(context.Background(), authorID, false, comment.ID))
	assert.Empty(t, repo.comments)
}

func TestCountsPerTarget(t *testing.T) {
	repo := &fakeInteractionRepo{}
	activityID := uuid.New()
	checker := &fakeActivityChecker{known: map[uuid.UUID]bool{activityID: true}}
	svc := testService(t, repo, checker, nil)
	target := Target{ActivityID: &activityID}

	for i := 0; i < 3; i++ {
		_, err := svc.ToggleLike(context.Background(), uuid.New(), target)
		require.NoError(t, err)
	}
	_, err := svc.CreateComment(context.Background(), uuid.New(), CommentRequest{Target: target, Content: "halo"})
	require.NoError(t, err)

	counts, err := svc.Counts(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Likes)
	assert.Equal(t, int64(1), counts.Comments)

	byActivity, err := svc.CountForActivities(context.Background(), []uuid.UUID{activityID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), byActivity[activityID].Likes)
}
