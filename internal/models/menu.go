package models

// MenuItem is one node of the site navigation tree. Children live
// inside the parent record, so removing a parent removes its subtree
// and cycles are structurally impossible.
type MenuItem struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	Children []MenuItem `json:"children,omitempty"`
}

// MenuModel persists the whole navigation tree as one ordered document.
// The admin editor rewrites it wholesale on commit.
type MenuModel struct {
	Base
	Items []MenuItem `json:"items" gorm:"type:longtext;serializer:json"`
}

func (MenuModel) TableName() string { return "menus" }
