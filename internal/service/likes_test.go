package service

// Тесты лайков и инкрементального патча кэша (internal/service/likes.go).

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"
)

func TestToggleLike_PatchesCachedCounter(t *testing.T) {
	svc, st, _ := newTestService(t, testAuthConfig())

	post := samplePosts()[0] // p1, автор u1

	// Прогрев агрегата автора: p1 без лайков. Источник истины опрошен
	// ровно один раз — дальнейшие чтения идут из кэша.
	st.EXPECT().PostsWithLikesByAuthor(gomock.Any(), "u1").
		Return([]models.PostWithLikes{{Post: post, LikeCount: 0}}, nil).Times(1)

	got, err := svc.MyPosts(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(0), got[0].LikeCount)

	st.EXPECT().PostByID(gomock.Any(), "p1").Return(&post, nil)
	st.EXPECT().SaveLike(gomock.Any(), gomock.Any()).Return(nil)

	status, err := svc.ToggleLike(context.Background(), "reader", "p1", models.LikeTargetPost)
	require.NoError(t, err)
	require.Equal(t, LikeStatusLiked, status)

	// Счётчик поправлен на месте, без похода в БД.
	got, err = svc.MyPosts(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(1), got[0].LikeCount)
}

func TestToggleLike_UnlikeDecrements(t *testing.T) {
	svc, st, _ := newTestService(t, testAuthConfig())

	post := samplePosts()[0]

	st.EXPECT().PostsWithLikesByAuthor(gomock.Any(), "u1").
		Return([]models.PostWithLikes{{Post: post, LikeCount: 1}}, nil).Times(1)

	_, err := svc.MyPosts(context.Background(), "u1")
	require.NoError(t, err)

	st.EXPECT().PostByID(gomock.Any(), "p1").Return(&post, nil)
	st.EXPECT().SaveLike(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)
	st.EXPECT().DeleteLike(gomock.Any(), "reader", "p1", models.LikeTargetPost).Return(true, nil)

	status, err := svc.ToggleLike(context.Background(), "reader", "p1", models.LikeTargetPost)
	require.NoError(t, err)
	require.Equal(t, LikeStatusUnliked, status)

	got, err := svc.MyPosts(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(0), got[0].LikeCount)
}

func TestToggleLike_CounterNeverNegative(t *testing.T) {
	svc, st, _ := newTestService(t, testAuthConfig())

	post := samplePosts()[0]

	st.EXPECT().PostsWithLikesByAuthor(gomock.Any(), "u1").
		Return([]models.PostWithLikes{{Post: post, LikeCount: 0}}, nil).Times(1)

	_, err := svc.MyPosts(context.Background(), "u1")
	require.NoError(t, err)

	st.EXPECT().PostByID(gomock.Any(), "p1").Return(&post, nil)
	st.EXPECT().SaveLike(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)
	st.EXPECT().DeleteLike(gomock.Any(), "reader", "p1", models.LikeTargetPost).Return(true, nil)

	_, err = svc.ToggleLike(context.Background(), "reader", "p1", models.LikeTargetPost)
	require.NoError(t, err)

	got, err := svc.MyPosts(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(0), got[0].LikeCount)
}

func TestToggleLike_UnknownTarget(t *testing.T) {
	svc, st, _ := newTestService(t, testAuthConfig())

	_, err := svc.ToggleLike(context.Background(), "reader", "p1", "page")
	require.ErrorIs(t, err, ErrNotFound)

	st.EXPECT().PostByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	_, err = svc.ToggleLike(context.Background(), "reader", "missing", models.LikeTargetPost)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleLike_ColdCacheNoop(t *testing.T) {
	svc, st, store := newTestService(t, testAuthConfig())

	post := samplePosts()[0]
	st.EXPECT().PostByID(gomock.Any(), "p1").Return(&post, nil)
	st.EXPECT().SaveLike(gomock.Any(), gomock.Any()).Return(nil)

	// Агрегат автора не кэширован: патч — no-op, лайк при этом проходит.
	status, err := svc.ToggleLike(context.Background(), "reader", "p1", models.LikeTargetPost)
	require.NoError(t, err)
	require.Equal(t, LikeStatusLiked, status)
	require.Empty(t, store.keys())
}

func TestLikeStatus(t *testing.T) {
	svc, st, _ := newTestService(t, testAuthConfig())

	st.EXPECT().LikeCount(gomock.Any(), "p1", models.LikeTargetPost).Return(int64(7), nil)
	st.EXPECT().HasLike(gomock.Any(), "reader", "p1", models.LikeTargetPost).Return(true, nil)

	status, err := svc.LikeStatus(context.Background(), "reader", "p1", models.LikeTargetPost)
	require.NoError(t, err)
	require.Equal(t, int64(7), status.Count)
	require.True(t, status.IsLiked)
}

func TestLikeStatus_Anonymous(t *testing.T) {
	svc, st, _ := newTestService(t, testAuthConfig())

	st.EXPECT().LikeCount(gomock.Any(), "p1", models.LikeTargetPost).Return(int64(2), nil)

	status, err := svc.LikeStatus(context.Background(), "", "p1", models.LikeTargetPost)
	require.NoError(t, err)
	require.Equal(t, int64(2), status.Count)
	require.False(t, status.IsLiked)
}
