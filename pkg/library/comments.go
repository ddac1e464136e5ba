package library

import (
	"context"
	"database/sql"
	"time"

	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// AddMangaComment attaches a comment to a manga, canonicalizing it first.
func (s *Service) AddMangaComment(ctx context.Context, userID string, source models.Source, sourceID string, attrs MangaAttributes, content string, parentID *int) (*models.Comment, error) {
	manga, err := s.UpsertManga(ctx, source, sourceID, attrs)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		MangaID: &manga.ID,
		Content: content,
	}
	return s.insertComment(ctx, comment, parentID)
}

// AddChapterComment attaches a comment directly to an upstream chapter id.
// No canonical manga row is needed; the chapter's title and number are
// denormalized onto the comment so threads render without an upstream fetch.
func (s *Service) AddChapterComment(ctx context.Context, userID, chapterID string, chapterTitle, chapterNumber *string, content string, parentID *int) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:        userID,
		ChapterID:     &chapterID,
		ChapterTitle:  chapterTitle,
		ChapterNumber: chapterNumber,
		Content:       content,
	}
	return s.insertComment(ctx, comment, parentID)
}

func (s *Service) insertComment(ctx context.Context, comment *models.Comment, parentID *int) (*models.Comment, error) {
	if parentID != nil {
		parent := &models.Comment{}
		err := s.db.NewSelect().
			Model(parent).
			Where("c.id = ?", *parentID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errcodes.NotFound("Comment")
			}
			return nil, errors.WithStack(err)
		}
		// One level of nesting: replying to a reply attaches to its parent.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
		comment.ParentID = parentID
	}

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := s.db.NewInsert().Model(comment).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return s.RetrieveComment(ctx, comment.ID, comment.UserID)
}

// RetrieveComment returns one comment with its author profile and like
// counts. The viewer id drives the per-viewer liked flag and may be empty.
func (s *Service) RetrieveComment(ctx context.Context, id int, viewerID string) (*models.Comment, error) {
	comment := &models.Comment{}
	err := s.commentQuery(comment, viewerID).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Comment")
		}
		return nil, errors.WithStack(err)
	}
	return comment, nil
}

// ListMangaComments returns the top-level comments for (source, source id),
// newest first. Replies are excluded; they are fetched separately. A manga
// with no canonical row has no comments.
func (s *Service) ListMangaComments(ctx context.Context, source models.Source, sourceID, viewerID string) ([]*models.Comment, error) {
	manga, err := s.RetrieveManga(ctx, source, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*models.Comment{}, nil
		}
		return nil, err
	}

	comments := []*models.Comment{}
	err = s.commentQuery(&comments, viewerID).
		Where("c.manga_id = ?", manga.ID).
		Where("c.parent_id IS NULL").
		Order("c.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return comments, nil
}

// ListChapterComments returns the top-level comments for an upstream chapter
// id, newest first.
func (s *Service) ListChapterComments(ctx context.Context, chapterID, viewerID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := s.commentQuery(&comments, viewerID).
		Where("c.chapter_id = ?", chapterID).
		Where("c.parent_id IS NULL").
		Order("c.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return comments, nil
}

// CountChapterComments returns how many comments a chapter has, replies
// included.
func (s *Service) CountChapterComments(ctx context.Context, chapterID string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*models.Comment)(nil)).
		Where("chapter_id = ?", chapterID).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// ListReplies returns the replies to a comment, oldest first.
func (s *Service) ListReplies(ctx context.Context, parentID int, viewerID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := s.commentQuery(&comments, viewerID).
		Where("c.parent_id = ?", parentID).
		Order("c.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return comments, nil
}

// UpdateComment edits a comment's content. Only the author may edit, and the
// edited flag is set permanently.
func (s *Service) UpdateComment(ctx context.Context, userID string, id int, content string) (*models.Comment, error) {
	res, err := s.db.NewUpdate().
		Model((*models.Comment)(nil)).
		Set("content = ?", content).
		Set("edited = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		return nil, errcodes.NotFound("Comment")
	}
	return s.RetrieveComment(ctx, id, userID)
}

// DeleteComment removes a comment along with its replies and likes. Only the
// author may delete.
func (s *Service) DeleteComment(ctx context.Context, userID string, id int) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Comment)(nil)).
			Where("id = ?", id).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return errcodes.NotFound("Comment")
		}

		replyIDs := []int{}
		err = tx.NewSelect().
			Model((*models.Comment)(nil)).
			Column("id").
			Where("parent_id = ?", id).
			Scan(ctx, &replyIDs)
		if err != nil {
			return errors.WithStack(err)
		}

		likeTargets := append([]int{id}, replyIDs...)
		_, err = tx.NewDelete().
			Model((*models.CommentLike)(nil)).
			Where("comment_id IN (?)", bun.In(likeTargets)).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Comment)(nil)).
			Where("parent_id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// LikeComment records a like. Liking twice is a no-op.
func (s *Service) LikeComment(ctx context.Context, userID string, commentID int) error {
	exists, err := s.db.NewSelect().
		Model((*models.Comment)(nil)).
		Where("id = ?", commentID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Comment")
	}

	like := &models.CommentLike{
		UserID:    userID,
		CommentID: commentID,
		CreatedAt: time.Now(),
	}
	_, err = s.db.NewInsert().
		Model(like).
		On("CONFLICT (user_id, comment_id) DO NOTHING").
		Exec(ctx)
	return errors.WithStack(err)
}

// UnlikeComment removes a like if present.
func (s *Service) UnlikeComment(ctx context.Context, userID string, commentID int) error {
	_, err := s.db.NewDelete().
		Model((*models.CommentLike)(nil)).
		Where("user_id = ?", userID).
		Where("comment_id = ?", commentID).
		Exec(ctx)
	return errors.WithStack(err)
}

func (s *Service) commentQuery(model interface{}, viewerID string) *bun.SelectQuery {
	q := s.db.NewSelect().
		Model(model).
		Relation("Profile").
		ColumnExpr("c.*").
		ColumnExpr("(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS like_count")
	if viewerID != "" {
		q = q.ColumnExpr("EXISTS(SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = ?) AS liked", viewerID)
	}
	return q
}
