package feeds

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"social/storage"
	"social/storage/models"
)

const CursorEOF = "eof"

const DefaultLimit = 50

var ErrMalformedCursor = errors.New("malformed cursor")

type QueryParams struct {
	Limit  int
	Cursor string
}

// Feed composes a user's timeline: posts authored by everyone the user
// follows, newest first. Pages are addressed by an opaque cursor encoding the
// creation time and id of the last returned post, so a reader can restart
// from any point.
type Feed struct {
	store storage.Store
}

func NewFeed(store storage.Store) Feed {
	return Feed{store: store}
}

func (f *Feed) GetTimeline(ctx context.Context, userID int64, params QueryParams) (Response, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	before := time.Now()
	var beforeID int64
	switch {
	case params.Cursor == "":
		// fresh read starts at the top of the feed
	case params.Cursor == CursorEOF:
		return Response{
			Cursor: CursorEOF,
			Posts:  make([]models.FeedEntry, 0),
		}, nil
	default:
		var err error
		before, beforeID, err = parseCursor(params.Cursor)
		if err != nil {
			return Response{}, err
		}
	}

	posts, err := f.store.GetFeed(ctx, userID, before, beforeID, params.Limit)
	if err != nil {
		return Response{}, err
	}

	cursor := CursorEOF
	if len(posts) > 0 {
		last := posts[len(posts)-1]
		cursor = formatCursor(last.CreatedAt, last.PostID)
	}

	return Response{
		Cursor: cursor,
		Posts:  posts,
	}, nil
}

func formatCursor(createdAt time.Time, postID int64) string {
	return fmt.Sprintf("%d_%d", createdAt.UnixMicro(), postID)
}

func parseCursor(cursor string) (time.Time, int64, error) {
	parts := strings.Split(cursor, "_")
	if len(parts) != 2 {
		return time.Time{}, 0, ErrMalformedCursor
	}
	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, ErrMalformedCursor
	}
	postID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, ErrMalformedCursor
	}
	return time.UnixMicro(micros), postID, nil
}
