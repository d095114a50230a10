package wizard

import (
	"net/url"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// Selection is an ordered set of ids.
type Selection []string

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id when present and appends it otherwise.
func (s Selection) Toggle(id string) Selection {
	if id == "" {
		return s
	}
	out := make(Selection, 0, len(s)+1)
	found := false
	for _, v := range s {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// selectionFrom keeps the first occurrence of each non-empty id.
func selectionFrom(ids []string) Selection {
	out := make(Selection, 0, len(ids))
	for _, id := range ids {
		if id != "" && !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// GroupDraft is the testcase or testsuite form: a name plus ordered children.
type GroupDraft struct {
	Name        string `validate:"required"`
	Description string
	Selected    Selection
}

// GroupDraftFromForm rebuilds a draft. Children arrive as repeated
// "selected" fields in selection order.
func GroupDraftFromForm(form url.Values) GroupDraft {
	return GroupDraft{
		Name:        form.Get("name"),
		Description: form.Get("description"),
		Selected:    selectionFrom(form["selected"]),
	}
}

func (d GroupDraft) check() (GroupDraft, error) {
	d.Name = trimmed(d.Name)
	if err := validate.Struct(d); err != nil {
		return d, messageFor(err, map[string]string{"Name": "Name is required"}, "Invalid form")
	}
	return d, nil
}

// TestcasePayload validates the draft as a testcase.
func (d GroupDraft) TestcasePayload() (models.CreateTestcaseRequest, error) {
	d, err := d.check()
	return models.CreateTestcaseRequest{
		Name:        d.Name,
		Description: d.Description,
		WorkitemIDs: append([]string{}, d.Selected...),
	}, err
}

// TestsuitePayload validates the draft as a testsuite.
func (d GroupDraft) TestsuitePayload() (models.CreateTestsuiteRequest, error) {
	d, err := d.check()
	return models.CreateTestsuiteRequest{
		Name:        d.Name,
		Description: d.Description,
		TestcaseIDs: append([]string{}, d.Selected...),
	}, err
}

// Option is one selectable child.
type Option struct {
	ID    string
	Name  string
	Badge string
}

// Options extracts selectable children from a sibling list payload. The id
// comes from idField, falling back to "id"; items with neither are skipped.
func Options(data []byte, idField string) ([]Option, error) {
	items, err := entity.Unwrap(data)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(items))
	for _, item := range items {
		id := entity.Text(item[idField])
		if id == "" {
			id = entity.Text(item["id"])
		}
		if id == "" {
			continue
		}
		name := entity.Text(item["name"])
		if name == "" {
			name = entity.Text(item["workitem_title"])
		}
		if name == "" {
			name = entity.Text(item["testcase_title"])
		}
		if name == "" {
			name = id
		}
		out = append(out, Option{ID: id, Name: name, Badge: entity.Text(item["workitem_type"])})
	}
	return out, nil
}
