package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolboard/core/internal/models"
)

func TestDefaultSectionDataCoversEveryType(t *testing.T) {
	for _, st := range models.SectionTypes {
		data, ok := models.DefaultSectionData(st)
		require.True(t, ok, "type %q has no default payload", st)
		require.True(t, json.Valid(data))
		assert.NoError(t, models.ValidateSectionData(st, data),
			"default payload for %q must validate against its own type", st)
	}
}

func TestDefaultSectionDataUnknownType(t *testing.T) {
	_, ok := models.DefaultSectionData(models.SectionType("weather"))
	assert.False(t, ok)
}

func TestValidateSectionDataStrictKeys(t *testing.T) {
	hotlines := json.RawMessage(`{"hotlines":[{"name":"Office","number":"123"}]}`)
	assert.NoError(t, models.ValidateSectionData(models.SectionHotlines, hotlines))
	assert.Error(t, models.ValidateSectionData(models.SectionList, hotlines),
		"payload of one type must not pass as another")
}

func TestValidateSectionDataMissing(t *testing.T) {
	assert.Error(t, models.ValidateSectionData(models.SectionList, nil))
	assert.ErrorIs(t, models.ValidateSectionData(models.SectionType("weather"),
		json.RawMessage(`{}`)), models.ErrSectionTypeUnknown)
}

func TestSectionTypeValid(t *testing.T) {
	for _, st := range models.SectionTypes {
		assert.True(t, st.Valid())
	}
	assert.False(t, models.SectionType("").Valid())
	assert.False(t, models.SectionType("weather").Valid())
}
