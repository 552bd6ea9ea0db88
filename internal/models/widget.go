package models

// HomeWidgetModel configures one block on the public home page.
type HomeWidgetModel struct {
	Base
	Title   string `json:"title"`
	Kind    string `json:"kind"    gorm:"not null"` // notices | news | gallery | links | custom
	Body    string `json:"body"    gorm:"type:longtext"`
	Link    string `json:"link"`
	Visible bool   `json:"visible" gorm:"default:true"`
	Order   int    `json:"order"   gorm:"column:order_num;default:0"`
}

func (HomeWidgetModel) TableName() string { return "home_widgets" }

// InfoCardModel is a small labelled card (head teacher, student count,
// contact hours) rendered in the home info strip.
type InfoCardModel struct {
	Base
	Label string `json:"label" gorm:"not null"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
	Link  string `json:"link"`
	Order int    `json:"order" gorm:"column:order_num;default:0"`
}

func (InfoCardModel) TableName() string { return "info_cards" }
