package models

// CarouselItemModel is one slide of the home carousel. Order is the
// position in the strip; the admin editor reorders by swapping
// neighbours, so values stay dense.
type CarouselItemModel struct {
	Base
	Image   string `json:"image"   gorm:"not null"`
	Caption string `json:"caption"`
	Link    string `json:"link"`
	Order   int    `json:"order"   gorm:"column:order_num;default:0"`
}

func (CarouselItemModel) TableName() string { return "carousel_items" }
