package models

// PostModel is a feed post. A post owns its comments; comment order is
// insertion order. The per-post comment counts shown in list responses are
// always derived from the comments table, never stored here.
type PostModel struct {
	Base
	Author  string `json:"author"  gorm:"not null"`
	Caption string `json:"caption" gorm:"type:text"`
}

func (PostModel) TableName() string { return "posts" }
