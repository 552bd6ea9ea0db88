package models

// NoticeKind distinguishes board notices from general news posts. Both
// share one table and render path; the public site lists them on
// separate views.
type NoticeKind string

const (
	NoticeKindNotice NoticeKind = "notice"
	NoticeKindNews   NoticeKind = "news"
)

// NoticeModel is a dated announcement shown on the public site.
type NoticeModel struct {
	Base
	Kind       NoticeKind `json:"kind"        gorm:"index;not null;default:'notice'"`
	Title      string     `json:"title"       gorm:"not null"`
	Text       string     `json:"text"        gorm:"type:longtext"`
	Attachment string     `json:"attachment"`
	Image      string     `json:"image"`
	Pinned     bool       `json:"pinned"      gorm:"index;default:false"`
	Published  bool       `json:"published"   gorm:"index;default:true"`
	ReadCount  int64      `json:"read_count"  gorm:"default:0"`
}

func (NoticeModel) TableName() string { return "notices" }
