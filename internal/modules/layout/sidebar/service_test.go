package sidebar_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/layout/sidebar"
)

func section(t *testing.T, raw string) json.RawMessage {
	t.Helper()
	require.True(t, json.Valid([]byte(raw)))
	return json.RawMessage(raw)
}

func decodeSection(t *testing.T, raw json.RawMessage) models.SidebarSectionModel {
	t.Helper()
	var m models.SidebarSectionModel
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestNormalizeTypeChangeResetsData(t *testing.T) {
	svc := sidebar.NewService(nil)

	prev := section(t, `{"id":"s1","type":"list","title":"Links","data":{"links":[{"label":"Home","href":"#home"}]}}`)
	next := section(t, `{"id":"s1","type":"hotlines","title":"Links","data":{"links":[{"label":"Home","href":"#home"}]}}`)

	out, err := svc.Normalize(prev, next)
	require.NoError(t, err)

	got := decodeSection(t, out)
	assert.Equal(t, models.SectionHotlines, got.Type)
	assert.JSONEq(t, `{"hotlines":[]}`, string(got.Data), "the old type's payload must not survive the switch")
}

func TestNormalizeSameTypeKeepsData(t *testing.T) {
	svc := sidebar.NewService(nil)

	prev := section(t, `{"id":"s1","type":"list","title":"Links","data":{"links":[]}}`)
	next := section(t, `{"id":"s1","type":"list","title":"Links","data":{"links":[{"label":"Home","href":"#home"}]}}`)

	out, err := svc.Normalize(prev, next)
	require.NoError(t, err)

	got := decodeSection(t, out)
	assert.Equal(t, models.SectionList, got.Type)
	assert.JSONEq(t, `{"links":[{"label":"Home","href":"#home"}]}`, string(got.Data))
}

func TestNormalizeNewSectionGetsDefaultData(t *testing.T) {
	svc := sidebar.NewService(nil)

	out, err := svc.Normalize(nil, section(t, `{"type":"message","title":"Principal"}`))
	require.NoError(t, err)

	got := decodeSection(t, out)
	assert.Equal(t, models.SectionMessage, got.Type)
	assert.JSONEq(t, `{"name":"","designation":"","image":"","quote":""}`, string(got.Data))
}

func TestNormalizeRejectsMismatchedData(t *testing.T) {
	svc := sidebar.NewService(nil)

	prev := section(t, `{"id":"s1","type":"gallery","title":"Photos","data":{"images":[]}}`)
	next := section(t, `{"id":"s1","type":"gallery","title":"Photos","data":{"hotlines":[]}}`)

	_, err := svc.Normalize(prev, next)
	assert.Error(t, err, "payload keys from another type must be rejected")
}

func TestNormalizeRejectsUnknownType(t *testing.T) {
	svc := sidebar.NewService(nil)

	_, err := svc.Normalize(nil, section(t, `{"type":"weather","title":"Nope"}`))
	assert.ErrorIs(t, err, models.ErrSectionTypeUnknown)
}
