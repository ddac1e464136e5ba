package library

import (
	"context"
	"testing"

	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_MangaComments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	attrs := MangaAttributes{Title: "Vinland Saga"}

	t.Run("add and list top-level only", func(t *testing.T) {
		first, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-com", attrs, "First!", nil)
		require.NoError(t, err)
		assert.Equal(t, "First!", first.Content)
		assert.False(t, first.Edited)

		second, err := svc.AddMangaComment(ctx, "user-2", models.SourceMangaDex, "md-com", attrs, "Second.", nil)
		require.NoError(t, err)

		_, err = svc.AddMangaComment(ctx, "user-3", models.SourceMangaDex, "md-com", attrs, "A reply.", &first.ID)
		require.NoError(t, err)

		comments, err := svc.ListMangaComments(ctx, models.SourceMangaDex, "md-com", "")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, second.ID, comments[0].ID)
		assert.Equal(t, first.ID, comments[1].ID)
	})

	t.Run("never-seen manga has no comments", func(t *testing.T) {
		comments, err := svc.ListMangaComments(ctx, models.SourceLerManga, "unseen", "")
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("replying to a reply attaches to the original parent", func(t *testing.T) {
		parent, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-nest", attrs, "Parent", nil)
		require.NoError(t, err)
		reply, err := svc.AddMangaComment(ctx, "user-2", models.SourceMangaDex, "md-nest", attrs, "Reply", &parent.ID)
		require.NoError(t, err)
		deep, err := svc.AddMangaComment(ctx, "user-3", models.SourceMangaDex, "md-nest", attrs, "Reply to reply", &reply.ID)
		require.NoError(t, err)

		require.NotNil(t, deep.ParentID)
		assert.Equal(t, parent.ID, *deep.ParentID)

		replies, err := svc.ListReplies(ctx, parent.ID, "")
		require.NoError(t, err)
		require.Len(t, replies, 2)
		assert.Equal(t, reply.ID, replies[0].ID)
		assert.Equal(t, deep.ID, replies[1].ID)
	})

	t.Run("replying to a missing comment fails", func(t *testing.T) {
		missing := 999999
		_, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-com", attrs, "Orphan", &missing)
		assert.ErrorIs(t, err, errcodes.NotFound("Comment"))
	})
}

func TestService_ChapterComments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("comments attach to the upstream chapter id", func(t *testing.T) {
		title := "The Beginning"
		number := "1"
		comment, err := svc.AddChapterComment(ctx, "user-1", "chapter-abc", &title, &number, "Loved this chapter.", nil)
		require.NoError(t, err)
		require.NotNil(t, comment.ChapterID)
		assert.Equal(t, "chapter-abc", *comment.ChapterID)
		require.NotNil(t, comment.ChapterTitle)
		assert.Equal(t, "The Beginning", *comment.ChapterTitle)
		assert.Nil(t, comment.MangaID)

		comments, err := svc.ListChapterComments(ctx, "chapter-abc", "")
		require.NoError(t, err)
		require.Len(t, comments, 1)
	})

	t.Run("different chapters do not mix", func(t *testing.T) {
		_, err := svc.AddChapterComment(ctx, "user-1", "chapter-x", nil, nil, "On x.", nil)
		require.NoError(t, err)

		comments, err := svc.ListChapterComments(ctx, "chapter-y", "")
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("count includes replies", func(t *testing.T) {
		first, err := svc.AddChapterComment(ctx, "user-1", "chapter-count", nil, nil, "First.", nil)
		require.NoError(t, err)
		_, err = svc.AddChapterComment(ctx, "user-2", "chapter-count", nil, nil, "Agreed.", &first.ID)
		require.NoError(t, err)

		count, err := svc.CountChapterComments(ctx, "chapter-count")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		count, err = svc.CountChapterComments(ctx, "chapter-never")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestService_UpdateComment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	attrs := MangaAttributes{Title: "Monster"}
	comment, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-upd", attrs, "Typo here", nil)
	require.NoError(t, err)

	t.Run("author edits and the edited flag sticks", func(t *testing.T) {
		updated, err := svc.UpdateComment(ctx, "user-1", comment.ID, "Typo fixed")
		require.NoError(t, err)
		assert.Equal(t, "Typo fixed", updated.Content)
		assert.True(t, updated.Edited)
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, "user-2", comment.ID, "Hijacked")
		assert.ErrorIs(t, err, errcodes.NotFound("Comment"))
	})
}

func TestService_DeleteComment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	attrs := MangaAttributes{Title: "Pluto"}

	t.Run("delete removes replies and likes too", func(t *testing.T) {
		parent, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-del", attrs, "Parent", nil)
		require.NoError(t, err)
		reply, err := svc.AddMangaComment(ctx, "user-2", models.SourceMangaDex, "md-del", attrs, "Reply", &parent.ID)
		require.NoError(t, err)
		require.NoError(t, svc.LikeComment(ctx, "user-3", parent.ID))
		require.NoError(t, svc.LikeComment(ctx, "user-3", reply.ID))

		require.NoError(t, svc.DeleteComment(ctx, "user-1", parent.ID))

		_, err = svc.RetrieveComment(ctx, parent.ID, "")
		assert.ErrorIs(t, err, errcodes.NotFound("Comment"))
		_, err = svc.RetrieveComment(ctx, reply.ID, "")
		assert.ErrorIs(t, err, errcodes.NotFound("Comment"))

		likes, err := db.NewSelect().
			Model((*models.CommentLike)(nil)).
			Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, likes)
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		comment, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-del", attrs, "Mine", nil)
		require.NoError(t, err)

		err = svc.DeleteComment(ctx, "user-2", comment.ID)
		assert.ErrorIs(t, err, errcodes.NotFound("Comment"))

		_, err = svc.RetrieveComment(ctx, comment.ID, "")
		assert.NoError(t, err)
	})
}

func TestService_CommentLikes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	attrs := MangaAttributes{Title: "20th Century Boys"}
	comment, err := svc.AddMangaComment(ctx, "user-1", models.SourceMangaDex, "md-like", attrs, "Banger", nil)
	require.NoError(t, err)

	t.Run("like counts and the per-viewer flag", func(t *testing.T) {
		require.NoError(t, svc.LikeComment(ctx, "user-2", comment.ID))
		require.NoError(t, svc.LikeComment(ctx, "user-3", comment.ID))

		seen, err := svc.RetrieveComment(ctx, comment.ID, "user-2")
		require.NoError(t, err)
		assert.Equal(t, 2, seen.LikeCount)
		assert.True(t, seen.Liked)

		anonymous, err := svc.RetrieveComment(ctx, comment.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 2, anonymous.LikeCount)
		assert.False(t, anonymous.Liked)
	})

	t.Run("liking twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.LikeComment(ctx, "user-2", comment.ID))

		seen, err := svc.RetrieveComment(ctx, comment.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 2, seen.LikeCount)
	})

	t.Run("unlike removes only the caller's like", func(t *testing.T) {
		require.NoError(t, svc.UnlikeComment(ctx, "user-2", comment.ID))

		seen, err := svc.RetrieveComment(ctx, comment.ID, "user-3")
		require.NoError(t, err)
		assert.Equal(t, 1, seen.LikeCount)
		assert.True(t, seen.Liked)
	})

	t.Run("liking a missing comment fails", func(t *testing.T) {
		err := svc.LikeComment(ctx, "user-1", 999999)
		assert.ErrorIs(t, err, errcodes.NotFound("Comment"))
	})
}
