package models

// CommentState represents the moderation state of a comment.
type CommentState string

const (
	// CommentVisible is publicly listed.
	CommentVisible CommentState = "visible"
	// CommentHiddenAuto was withheld by the moderation policy at creation.
	CommentHiddenAuto CommentState = "hidden_auto"
	// CommentHiddenManual was withheld by an operator override.
	CommentHiddenManual CommentState = "hidden_manual"
	// CommentDeleted is terminal; deleted comments never surface again.
	CommentDeleted CommentState = "deleted"
)

// Valid reports whether s is a known moderation state.
func (s CommentState) Valid() bool {
	switch s {
	case CommentVisible, CommentHiddenAuto, CommentHiddenManual, CommentDeleted:
		return true
	}
	return false
}

// Hidden reports whether the comment is withheld from the public list,
// regardless of whether policy or an operator hid it.
func (s CommentState) Hidden() bool {
	return s == CommentHiddenAuto || s == CommentHiddenManual
}

// CommentModel is a moderated comment on a post.
//
// SpamProbability is assigned exactly once when the moderation pipeline
// scores the raw text, and never recomputed afterwards: it is the permanent
// provenance for the original decision. Overrides touch only State.
type CommentModel struct {
	Base
	PostID          string       `json:"post_id"          gorm:"type:char(36);not null;index"`
	Author          string       `json:"author"           gorm:"not null"`
	Text            string       `json:"text"             gorm:"type:text;not null"`
	NormalizedText  string       `json:"-"                gorm:"type:text"`
	SpamProbability float64      `json:"spam_probability" gorm:"not null"`
	State           CommentState `json:"state"            gorm:"type:varchar(16);not null;index"`
	LikeCount       int          `json:"like_count"       gorm:"default:0"`
}

func (CommentModel) TableName() string { return "comments" }
