// Package content defines the lesson data model and loads it from the
// content source. Lesson JSON has grown through several schema generations,
// so the types here accept every shape found in the dataset and normalize
// on decode.
package content

import (
	"encoding/json"
	"strings"

	"github.com/parsi-learn/academy/internal/bilingual"
)

// Text is a bilingual string. On the wire it is either a bare string
// (English only) or an {en, fa} object.
type Text struct {
	EN string `json:"en"`
	FA string `json:"fa,omitempty"`
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.EN = s
		t.FA = ""
		return nil
	}
	type plain Text
	return json.Unmarshal(data, (*plain)(t))
}

// IsZero reports whether both sides are empty.
func (t Text) IsZero() bool { return t.EN == "" && t.FA == "" }

// Bilingual converts to the rendering representation.
func (t Text) Bilingual() bilingual.Text { return bilingual.Text{EN: t.EN, FA: t.FA} }

// FAText is a Persian value that arrives either as a string or as a list
// of variants, which are joined with ", " for display.
type FAText string

func (f *FAText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FAText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	var kept []string
	for _, v := range list {
		if v != "" {
			kept = append(kept, v)
		}
	}
	*f = FAText(strings.Join(kept, ", "))
	return nil
}

func (f FAText) String() string { return string(f) }

// Image is the normalized lesson image reference.
type Image struct {
	Src800  string `json:"src800"`
	Src1600 string `json:"src1600,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// imageField accepts the current object shape and the legacy bare string.
type imageField struct {
	Image
	set bool
}

func (im *imageField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			im.Src800 = s
			im.set = true
		}
		return nil
	}
	var obj struct {
		Src800  string `json:"src800"`
		Src     string `json:"src"`
		Src1600 string `json:"src1600"`
		Alt     string `json:"alt"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Src800 == "" {
		obj.Src800 = obj.Src
	}
	im.Image = Image{Src800: obj.Src800, Src1600: obj.Src1600, Alt: obj.Alt}
	im.set = obj.Src800 != ""
	return nil
}

// Srcset returns the responsive srcset for the image, deriving the 1600px
// variant from the 800px name when only one is present.
func (i Image) Srcset() string {
	s1600 := i.Src1600
	if s1600 == "" && strings.HasSuffix(strings.ToLower(i.Src800), "-800.webp") {
		s1600 = i.Src800[:len(i.Src800)-len("-800.webp")] + "-1600.webp"
	}
	if i.Src800 == "" || s1600 == "" {
		return ""
	}
	return i.Src800 + " 800w, " + s1600 + " 1600w"
}
