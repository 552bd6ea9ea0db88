package models

// PageModel is a slugged static page (chairman's message, terms,
// privacy, and anything the page-viewer route can open).
type PageModel struct {
	Base
	Slug      string `json:"slug"       gorm:"uniqueIndex;not null"`
	Title     string `json:"title"      gorm:"not null"`
	Subtitle  string `json:"subtitle"`
	Text      string `json:"text"       gorm:"type:longtext"`
	Image     string `json:"image"`
	Order     int    `json:"order"      gorm:"column:order_num;default:0"`
	Published bool   `json:"published"  gorm:"index;default:true"`
	ReadCount int64  `json:"read_count" gorm:"default:0"`
}

func (PageModel) TableName() string { return "pages" }
