package content

import "encoding/json"

// RegistryEntry is one lesson listed in the registry.
type RegistryEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	File      string   `json:"file,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Image800  string   `json:"image800,omitempty"`
	Image1600 string   `json:"image1600,omitempty"`
}

// Registry is the ordered lesson index. On the wire it is either a bare
// array or a {lessons: [...]} object.
type Registry struct {
	Lessons []RegistryEntry
}

func (r *Registry) UnmarshalJSON(data []byte) error {
	var list []RegistryEntry
	if err := json.Unmarshal(data, &list); err == nil {
		r.Lessons = list
		return nil
	}
	var obj struct {
		Lessons []RegistryEntry `json:"lessons"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Lessons = obj.Lessons
	return nil
}

// Find returns the entry with the given id, or nil.
func (r *Registry) Find(id string) *RegistryEntry {
	for i := range r.Lessons {
		if r.Lessons[i].ID == id {
			return &r.Lessons[i]
		}
	}
	return nil
}

// Neighbors returns the previous and next entries around id in registry
// order. Either may be nil at the edges or when id is unknown.
func (r *Registry) Neighbors(id string) (prev, next *RegistryEntry) {
	for i := range r.Lessons {
		if r.Lessons[i].ID != id {
			continue
		}
		if i > 0 {
			prev = &r.Lessons[i-1]
		}
		if i < len(r.Lessons)-1 {
			next = &r.Lessons[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Merge copies registry metadata into a lesson whose document omitted it.
func (e *RegistryEntry) Merge(l *Lesson) {
	if l.Title == "" {
		l.Title = e.Title
	}
	if l.Caption == "" {
		l.Caption = e.Caption
	}
	if len(l.Tags) == 0 {
		l.Tags = e.Tags
	}
	if !l.RawImage.set && l.Image800 == "" && (e.Image800 != "" || e.Image1600 != "") {
		l.Image800 = e.Image800
		l.Image1600 = e.Image1600
	}
}
