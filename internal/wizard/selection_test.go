package wizard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Toggle(t *testing.T) {
	var s Selection
	s = s.Toggle("b")
	s = s.Toggle("a")
	s = s.Toggle("c")
	assert.Equal(t, Selection{"b", "a", "c"}, s)

	s = s.Toggle("a")
	assert.Equal(t, Selection{"b", "c"}, s)
	assert.False(t, s.Contains("a"))

	s = s.Toggle("a")
	assert.Equal(t, Selection{"b", "c", "a"}, s)
	assert.Equal(t, s, s.Toggle(""))
}

func TestGroupDraftFromForm(t *testing.T) {
	d := GroupDraftFromForm(url.Values{
		"name":     {"Checkout"},
		"selected": {"wi_2", "wi_1", "wi_2", ""},
	})
	assert.Equal(t, Selection{"wi_2", "wi_1"}, d.Selected)

	tc, err := d.TestcasePayload()
	require.NoError(t, err)
	assert.Equal(t, []string{"wi_2", "wi_1"}, tc.WorkitemIDs)

	ts, err := d.TestsuitePayload()
	require.NoError(t, err)
	assert.Equal(t, []string{"wi_2", "wi_1"}, ts.TestcaseIDs)
}

func TestGroupDraft_EmptySelectionIsEmptyList(t *testing.T) {
	tc, err := GroupDraft{Name: "x"}.TestcasePayload()
	require.NoError(t, err)
	assert.NotNil(t, tc.WorkitemIDs)
	assert.Empty(t, tc.WorkitemIDs)
}

func TestGroupDraft_NameRequired(t *testing.T) {
	_, err := GroupDraft{Name: " "}.TestsuitePayload()
	require.Error(t, err)
	assert.EqualError(t, err, "Name is required")
}

func TestOptions(t *testing.T) {
	opts, err := Options([]byte(`[
		{"workitem_id":"wi_1","name":"Ping","workitem_type":"REST"},
		{"id":"wi_2","workitem_title":"Pong"},
		{"name":"orphan"}
	]`), "workitem_id")
	require.NoError(t, err)
	assert.Equal(t, []Option{
		{ID: "wi_1", Name: "Ping", Badge: "REST"},
		{ID: "wi_2", Name: "Pong"},
	}, opts)

	opts, err = Options([]byte(`{"items":[{"testcase_id":"tc_1"}]}`), "testcase_id")
	require.NoError(t, err)
	assert.Equal(t, []Option{{ID: "tc_1", Name: "tc_1"}}, opts)
}
