package model

type Discussion struct {
	BaseModel
	CourseID uint    `gorm:"index;not null" json:"courseId"`
	AuthorID uint    `gorm:"index;not null" json:"authorId"`
	Author   *User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title    string  `gorm:"size:200;not null" json:"title"`
	Content  string  `gorm:"type:text" json:"content"`
	Replies  []Reply `gorm:"foreignKey:DiscussionID" json:"replies,omitempty"`
}

func (Discussion) TableName() string {
	return "discussions"
}

type Reply struct {
	BaseModel
	DiscussionID uint   `gorm:"index;not null" json:"discussionId"`
	AuthorID     uint   `gorm:"index;not null" json:"authorId"`
	Author       *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content      string `gorm:"type:text;not null" json:"content"`
}

func (Reply) TableName() string {
	return "replies"
}
