package dto

import (
	"time"

	"gwatch.ca/goosewatch/internal/entity"
)

// CreateReportRequest is the multipart form payload for a new sighting.
// Latitude/longitude arrive as strings and are parsed by the service so that
// unparsable values are rejected rather than silently zeroed.
type CreateReportRequest struct {
	Type        string `form:"type" binding:"required"`
	Latitude    string `form:"latitude" binding:"required"`
	Longitude   string `form:"longitude" binding:"required"`
	Description string `form:"description"`
	Severity    string `form:"severity"`
	UserID      string `form:"userId"`
	UserName    string `form:"userName"`
}

type AddCommentRequest struct {
	UserID   string `json:"userId" binding:"required"`
	UserName string `json:"userName"`
	Text     string `json:"text" binding:"required"`
}

type ToggleReactionRequest struct {
	UserID       string `json:"userId" binding:"required"`
	ReactionType string `json:"reactionType" binding:"required"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type ReactionCounts struct {
	Like   int `json:"like"`
	Upvote int `json:"upvote"`
}

type ViewerReactions struct {
	Like   bool `json:"like"`
	Upvote bool `json:"upvote"`
}

// ReportResponse is the viewer projection of a report: reaction counts plus
// the requesting viewer's own flags. Raw identities in other users' reaction
// sets never leave the core.
type ReportResponse struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	Latitude        float64           `json:"latitude"`
	Longitude       float64           `json:"longitude"`
	Description     string            `json:"description"`
	Severity        string            `json:"severity"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	AuthorID        string            `json:"authorId,omitempty"`
	AuthorName      string            `json:"authorName"`
	Timestamp       time.Time         `json:"timestamp"`
	Comments        []CommentResponse `json:"comments"`
	CommentCount    int               `json:"commentCount"`
	Reactions       ReactionCounts    `json:"reactions"`
	ViewerReactions ViewerReactions   `json:"viewerReactions"`
}

// NewReportResponse projects a canonical report for a specific viewer.
// Comments are already held in timestamp-ascending order by the normalizer.
func NewReportResponse(r entity.Report, viewerID string) ReportResponse {
	comments := make([]CommentResponse, 0, len(r.Comments))
	for _, c := range r.Comments {
		comments = append(comments, CommentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Text:      c.Text,
			Timestamp: c.Timestamp,
		})
	}

	return ReportResponse{
		ID:           r.ID,
		Type:         r.Type,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Description:  r.Description,
		Severity:     r.Severity,
		ImageURL:     r.ImageURL,
		AuthorID:     r.AuthorID,
		AuthorName:   r.AuthorName,
		Timestamp:    r.Timestamp,
		Comments:     comments,
		CommentCount: len(comments),
		Reactions: ReactionCounts{
			Like:   len(r.Reactions[entity.ReactionLike]),
			Upvote: len(r.Reactions[entity.ReactionUpvote]),
		},
		ViewerReactions: ViewerReactions{
			Like:   r.HasReacted(entity.ReactionLike, viewerID),
			Upvote: r.HasReacted(entity.ReactionUpvote, viewerID),
		},
	}
}
