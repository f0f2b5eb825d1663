package schema

import (
	"encoding/json"
	"fmt"
)

// Wire-level attribute names. The canonical JSON shape uses these keys; every
// other key encountered during decoding lands in the Extra bag and is written
// back verbatim on encode.

type formWire struct {
	Title               string `json:"title,omitempty"`
	Description         string `json:"description,omitempty"`
	Pages               []Page `json:"pages,omitempty"`
	WidthMode           string `json:"widthMode,omitempty"`
	ShowQuestionNumbers string `json:"showQuestionNumbers,omitempty"`
	MobileBreakpoint    int    `json:"mobileBreakpoint,omitempty"`
}

var formKeys = []string{"title", "description", "pages", "widthMode", "showQuestionNumbers", "mobileBreakpoint", "elements"}

type pageWire struct {
	Name     string    `json:"name,omitempty"`
	Title    string    `json:"title,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

var pageKeys = []string{"name", "title", "elements"}

type elementWire struct {
	Type           string    `json:"type,omitempty"`
	Name           string    `json:"name,omitempty"`
	Title          string    `json:"title,omitempty"`
	IsRequired     bool      `json:"isRequired,omitempty"`
	VisibleIf      string    `json:"visibleIf,omitempty"`
	ColCount       *int      `json:"colCount,omitempty"`
	RenderAs       string    `json:"renderAs,omitempty"`
	MaxWidth       string    `json:"maxWidth,omitempty"`
	SourceType     string    `json:"sourceType,omitempty"`
	MobileView     string    `json:"mobileView,omitempty"`
	ColumnColCount *int      `json:"columnColCount,omitempty"`
	RateMax        *int      `json:"rateMax,omitempty"`
	Choices        []any     `json:"choices,omitempty"`
	Elements       []Element `json:"elements,omitempty"`
	Rows           []Row     `json:"rows,omitempty"`
}

var elementKeys = []string{
	"type", "name", "title", "isRequired", "visibleIf", "colCount", "renderAs",
	"maxWidth", "sourceType", "mobileView", "columnColCount", "rateMax",
	"choices", "elements", "rows",
}

type rowWire struct {
	Value    string    `json:"value,omitempty"`
	Text     string    `json:"text,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

var rowKeys = []string{"value", "text", "elements"}

// UnmarshalJSON decodes a root form object. A root-level "elements" array is
// folded into the pages list so the rest of the pipeline only ever sees the
// pages shape: it becomes "page1" when the document has no pages, and an
// appended page when pages are also present.
func (f *Form) UnmarshalJSON(data []byte) error {
	var wire formWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	extra, err := collectExtra(data, formKeys)
	if err != nil {
		return err
	}

	var loose struct {
		Elements []Element `json:"elements"`
	}
	if err := json.Unmarshal(data, &loose); err == nil && len(loose.Elements) > 0 {
		name := fmt.Sprintf("page%d", len(wire.Pages)+1)
		wire.Pages = append(wire.Pages, Page{Name: name, Elements: loose.Elements})
	}

	*f = Form{
		Title:               wire.Title,
		Description:         wire.Description,
		Pages:               wire.Pages,
		WidthMode:           wire.WidthMode,
		ShowQuestionNumbers: wire.ShowQuestionNumbers,
		MobileBreakpoint:    wire.MobileBreakpoint,
		Extra:               extra,
	}
	return nil
}

// MarshalJSON writes the canonical attribute names and re-emits preserved
// extension attributes alongside them.
func (f Form) MarshalJSON() ([]byte, error) {
	return mergeExtra(formWire{
		Title:               f.Title,
		Description:         f.Description,
		Pages:               f.Pages,
		WidthMode:           f.WidthMode,
		ShowQuestionNumbers: f.ShowQuestionNumbers,
		MobileBreakpoint:    f.MobileBreakpoint,
	}, f.Extra)
}

func (p *Page) UnmarshalJSON(data []byte) error {
	var wire pageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	extra, err := collectExtra(data, pageKeys)
	if err != nil {
		return err
	}
	*p = Page{Name: wire.Name, Title: wire.Title, Elements: wire.Elements, Extra: extra}
	return nil
}

func (p Page) MarshalJSON() ([]byte, error) {
	return mergeExtra(pageWire{Name: p.Name, Title: p.Title, Elements: p.Elements}, p.Extra)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var wire elementWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	extra, err := collectExtra(data, elementKeys)
	if err != nil {
		return err
	}
	*e = Element{
		Type:           wire.Type,
		Name:           wire.Name,
		Title:          wire.Title,
		IsRequired:     wire.IsRequired,
		VisibleIf:      wire.VisibleIf,
		ColCount:       wire.ColCount,
		RenderAs:       wire.RenderAs,
		MaxWidth:       wire.MaxWidth,
		SourceType:     wire.SourceType,
		MobileView:     wire.MobileView,
		ColumnColCount: wire.ColumnColCount,
		RateMax:        wire.RateMax,
		Choices:        wire.Choices,
		Elements:       wire.Elements,
		Rows:           wire.Rows,
		Extra:          extra,
	}
	return nil
}

func (e Element) MarshalJSON() ([]byte, error) {
	return mergeExtra(elementWire{
		Type:           e.Type,
		Name:           e.Name,
		Title:          e.Title,
		IsRequired:     e.IsRequired,
		VisibleIf:      e.VisibleIf,
		ColCount:       e.ColCount,
		RenderAs:       e.RenderAs,
		MaxWidth:       e.MaxWidth,
		SourceType:     e.SourceType,
		MobileView:     e.MobileView,
		ColumnColCount: e.ColumnColCount,
		RateMax:        e.RateMax,
		Choices:        e.Choices,
		Elements:       e.Elements,
		Rows:           e.Rows,
	}, e.Extra)
}

// UnmarshalJSON accepts either the object row shape or the bare string
// shorthand the wire format allows.
func (r *Row) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		*r = Row{Value: value}
		return nil
	}

	var wire rowWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("schema: row must be a string or object: %w", err)
	}
	extra, err := collectExtra(data, rowKeys)
	if err != nil {
		return err
	}
	*r = Row{Value: wire.Value, Text: wire.Text, Elements: wire.Elements, Extra: extra}
	return nil
}

func (r Row) MarshalJSON() ([]byte, error) {
	if r.Text == "" && len(r.Elements) == 0 && len(r.Extra) == 0 {
		return json.Marshal(r.Value)
	}
	return mergeExtra(rowWire{Value: r.Value, Text: r.Text, Elements: r.Elements}, r.Extra)
}

// collectExtra returns every key of the object payload not claimed by the
// typed wire struct.
func collectExtra(data []byte, known []string) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, key := range known {
		delete(raw, key)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// mergeExtra marshals the typed wire struct, then overlays preserved
// extension attributes that do not collide with canonical keys.
func mergeExtra(wire any, extra map[string]any) ([]byte, error) {
	encoded, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return encoded, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, claimed := merged[key]; claimed {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}
