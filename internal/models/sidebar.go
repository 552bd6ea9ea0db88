package models

import "encoding/json"

// SectionType discriminates the payload shape of a sidebar section.
type SectionType string

const (
	SectionList     SectionType = "list"
	SectionHotlines SectionType = "hotlines"
	SectionMessage  SectionType = "message"
	SectionGallery  SectionType = "gallery"
)

// SectionTypes lists every valid type, in display order.
var SectionTypes = []SectionType{SectionList, SectionHotlines, SectionMessage, SectionGallery}

// Valid reports whether t is a member of the closed type set.
func (t SectionType) Valid() bool {
	switch t {
	case SectionList, SectionHotlines, SectionMessage, SectionGallery:
		return true
	}
	return false
}

// SidebarSectionModel is a tagged record: Data's valid shape is
// determined by Type. Type and Data are always written together; a type
// change replaces Data with that type's default shape.
type SidebarSectionModel struct {
	Base
	Type  SectionType     `json:"type"  gorm:"not null"`
	Title string          `json:"title"`
	Data  json.RawMessage `json:"data"  gorm:"type:longtext"`
	Order int             `json:"order" gorm:"column:order_num;default:0"`
}

func (SidebarSectionModel) TableName() string { return "sidebar_sections" }

// SectionLink is one entry of a list-type section.
type SectionLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// SectionHotline is one entry of a hotlines-type section.
type SectionHotline struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// ListData is the payload of a list-type section.
type ListData struct {
	Links []SectionLink `json:"links"`
}

// HotlinesData is the payload of a hotlines-type section.
type HotlinesData struct {
	Hotlines []SectionHotline `json:"hotlines"`
}

// MessageData is the payload of a message-type section.
type MessageData struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Image       string `json:"image"`
	Quote       string `json:"quote"`
}

// GalleryData is the payload of a gallery-type section.
type GalleryData struct {
	Images []string `json:"images"`
}

// DefaultSectionData returns the canonical empty payload for a section
// type. The switch is exhaustive over SectionTypes; an unknown type
// yields (nil, false) so callers reject it instead of persisting junk.
func DefaultSectionData(t SectionType) (json.RawMessage, bool) {
	var payload interface{}
	switch t {
	case SectionList:
		payload = ListData{Links: []SectionLink{}}
	case SectionHotlines:
		payload = HotlinesData{Hotlines: []SectionHotline{}}
	case SectionMessage:
		payload = MessageData{}
	case SectionGallery:
		payload = GalleryData{Images: []string{}}
	default:
		return nil, false
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ValidateSectionData checks that raw parses as the payload shape for t,
// with no leftover keys from another type.
func ValidateSectionData(t SectionType, raw json.RawMessage) error {
	if len(raw) == 0 {
		return errSectionDataMissing
	}
	dec := strictDecoder(raw)
	var err error
	switch t {
	case SectionList:
		err = dec.Decode(&ListData{})
	case SectionHotlines:
		err = dec.Decode(&HotlinesData{})
	case SectionMessage:
		err = dec.Decode(&MessageData{})
	case SectionGallery:
		err = dec.Decode(&GalleryData{})
	default:
		return errSectionTypeUnknown
	}
	return err
}
