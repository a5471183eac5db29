package content

import "encoding/json"

// VocabEntry is one detailed vocabulary item.
type VocabEntry struct {
	EN       string    `json:"en"`
	FA       FAText    `json:"fa"`
	Pos      string    `json:"pos,omitempty"`
	Examples []Example `json:"examples,omitempty"`
}

// Example is one usage example for a vocabulary item.
type Example struct {
	EN string `json:"en"`
	FA string `json:"fa,omitempty"`
}

// VocabItem is the legacy flat vocabulary shape. A bare string decodes as
// an item with only the English side set.
type VocabItem struct {
	Word        string `json:"word"`
	EN          string `json:"en"`
	Phrase      string `json:"phrase"`
	Translation string `json:"translation"`
	FA          FAText `json:"fa"`
}

func (v *VocabItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = VocabItem{EN: s}
		return nil
	}
	type plain VocabItem
	return json.Unmarshal(data, (*plain)(v))
}

// Headword returns the English side regardless of which field carried it.
func (v VocabItem) Headword() string {
	switch {
	case v.Word != "":
		return v.Word
	case v.EN != "":
		return v.EN
	default:
		return v.Phrase
	}
}

// Persian returns the translation regardless of which field carried it.
func (v VocabItem) Persian() string {
	if v.Translation != "" {
		return v.Translation
	}
	return v.FA.String()
}

// Collocation is one collocation with its translation.
type Collocation struct {
	EN string `json:"en"`
	FA string `json:"fa,omitempty"`
}

// GrammarLessonSide is one language side of a scenario's from-scratch
// grammar lesson. The EN and FA sides pair up by index.
type GrammarLessonSide struct {
	Tense             string   `json:"tense,omitempty"`
	SentenceStructure []string `json:"sentenceStructure,omitempty"`
	HowToBuild        []string `json:"howToBuild,omitempty"`
	Examples          []string `json:"examples,omitempty"`
}

// GrammarLesson is a scenario's grammar-basics block.
type GrammarLesson struct {
	EN GrammarLessonSide `json:"en,omitempty"`
	FA GrammarLessonSide `json:"fa,omitempty"`
}

// Scenario is one scenario story, optionally with grammar notes.
type Scenario struct {
	ID            string         `json:"id,omitempty"`
	Level         string         `json:"level,omitempty"`
	Title         string         `json:"title,omitempty"`
	EN            string         `json:"en"`
	FA            string         `json:"fa,omitempty"`
	GrammarFocus  []string       `json:"grammarFocus,omitempty"`
	GrammarUsed   *Text          `json:"grammarUsed,omitempty"`
	GrammarLesson *GrammarLesson `json:"grammarLesson,omitempty"`
}

// GrammarItem is one entry of the lesson-level grammar list, rendered on
// its own page.
type GrammarItem struct {
	ID        string               `json:"id"`
	Title     string               `json:"title,omitempty"`
	ExplainEN string               `json:"explain_en,omitempty"`
	ExplainFA string               `json:"explain_fa,omitempty"`
	Examples  map[string][]Example `json:"examples,omitempty"`
	Patterns  []string             `json:"patterns,omitempty"`
}

// Some documents carry the explanation under camelCase keys.
func (g *GrammarItem) UnmarshalJSON(data []byte) error {
	type plain GrammarItem
	aux := struct {
		*plain
		AltEN string `json:"explainEn"`
		AltFA string `json:"explainFa"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if g.ExplainEN == "" {
		g.ExplainEN = aux.AltEN
	}
	if g.ExplainFA == "" {
		g.ExplainFA = aux.AltFA
	}
	return nil
}

// grammarField accepts the grammar block's two wire shapes: a plain string
// and a list of grammar items.
type grammarField struct {
	Text  string
	Items []GrammarItem
}

func (gf *grammarField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		gf.Text = s
		return nil
	}
	return json.Unmarshal(data, &gf.Items)
}

// Phase is one timed stage of an exercise.
type Phase struct {
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
	Hint    string `json:"hint,omitempty"`
}

// Exercise is one timed practice exercise.
type Exercise struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	Level  string  `json:"level,omitempty"`
	Prompt string  `json:"prompt,omitempty"`
	Phases []Phase `json:"phases,omitempty"`
}

// TotalSeconds sums the exercise's phase durations.
func (e Exercise) TotalSeconds() int {
	total := 0
	for _, p := range e.Phases {
		total += p.Seconds
	}
	return total
}

// Task is a speaking or writing task.
type Task struct {
	Prompt       string   `json:"prompt,omitempty"`
	SampleAnswer string   `json:"sampleAnswer,omitempty"`
	Outline      []string `json:"outline,omitempty"`
}

// QA is one question and answer pair.
type QA struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// VocabPractice is the fill-in-the-blank drill with its answer key.
type VocabPractice struct {
	FillInTheBlank []string `json:"fillInTheBlank,omitempty"`
	Answers        []string `json:"answers,omitempty"`
}

// Practice groups the lesson's practice material.
type Practice struct {
	Sentences          []string       `json:"sentences,omitempty"`
	QA                 []QA           `json:"qa,omitempty"`
	SpeakingPrompts    []string       `json:"speakingPrompts,omitempty"`
	WarmupQuestions    []string       `json:"warmupQuestions,omitempty"`
	SpeakingTask       *Task          `json:"speakingTask,omitempty"`
	WritingTask        *Task          `json:"writingTask,omitempty"`
	VocabularyPractice *VocabPractice `json:"vocabularyPractice,omitempty"`
}

// ImageAnalysis is the structured photo checklist.
type ImageAnalysis struct {
	Time     string `json:"time,omitempty"`
	Weather  string `json:"weather,omitempty"`
	People   string `json:"people,omitempty"`
	Actions  string `json:"actions,omitempty"`
	Clothing string `json:"clothing,omitempty"`
	Mood     string `json:"mood,omitempty"`
}

// FlexString accepts either a JSON string or a number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// People describes who is in the photo.
type People struct {
	Count  FlexString `json:"count,omitempty"`
	Gender string     `json:"gender,omitempty"`
}

// Question is one multiple choice reading question.
type Question struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices,omitempty"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// SpeakingTask is one timed exam speaking task.
type SpeakingTask struct {
	Type           string `json:"type,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	PrepSeconds    int    `json:"prepSeconds,omitempty"`
	SpeakSeconds   int    `json:"speakSeconds,omitempty"`
	SampleResponse string `json:"sampleResponse,omitempty"`
}

// WritingTask is one timed exam writing task.
type WritingTask struct {
	Type         string `json:"type,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	TimeMinutes  int    `json:"timeMinutes,omitempty"`
	SampleAnswer string `json:"sampleAnswer,omitempty"`
}

// Toefl is the lesson's exam practice block.
type Toefl struct {
	Reading *struct {
		Passage string `json:"passage"`
	} `json:"reading,omitempty"`
	Questions []Question `json:"questions,omitempty"`
	Listening *struct {
		Script string `json:"script"`
		Note   string `json:"note,omitempty"`
	} `json:"listening,omitempty"`
	SpeakingTasks []SpeakingTask `json:"speakingTasks,omitempty"`
	WritingTasks  []WritingTask  `json:"writingTasks,omitempty"`
	ExamTips      []string       `json:"examTips,omitempty"`
}

// Analysis is the generator-facing scene analysis block.
type Analysis struct {
	Setting   string   `json:"setting,omitempty"`
	SettingFA string   `json:"settingFa,omitempty"`
	Mood      string   `json:"mood,omitempty"`
	MoodFA    string   `json:"moodFa,omitempty"`
	Objects   []string `json:"objects,omitempty"`
	Themes    []string `json:"themes,omitempty"`
}

// Lesson is one lesson document. Optional fields stay zero when the
// document omits them; rendering skips empty sections.
type Lesson struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Caption string   `json:"caption,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	RawImage  imageField `json:"image"`
	Image800  string     `json:"image800,omitempty"`
	Image1600 string     `json:"image1600,omitempty"`
	ImageAlt  string     `json:"imageAlt,omitempty"`

	FullDescription  *Text `json:"fullDescription,omitempty"`
	ImageDescription *Text `json:"imageDescription,omitempty"`

	SimpleEnglish       string `json:"simpleEnglish,omitempty"`
	IntermediateEnglish string `json:"intermediateEnglish,omitempty"`
	AdvancedEnglish     string `json:"advancedEnglish,omitempty"`
	Descriptions        struct {
		Intermediate string `json:"intermediate,omitempty"`
		Medium       string `json:"medium,omitempty"`
	} `json:"descriptions,omitempty"`

	Scenario  *Text      `json:"scenario,omitempty"`
	Scenarios []Scenario `json:"scenarios,omitempty"`

	Actions         []string       `json:"actions,omitempty"`
	People          *People        `json:"people,omitempty"`
	Ages            string         `json:"ages,omitempty"`
	Place           string         `json:"place,omitempty"`
	Objects         []string       `json:"objects,omitempty"`
	Clothing        string         `json:"clothing,omitempty"`
	Appearance      string         `json:"appearance,omitempty"`
	Feelings        []string       `json:"feelings,omitempty"`
	EnvironmentType string         `json:"environmentType,omitempty"`
	WeatherLighting string         `json:"weatherLighting,omitempty"`
	Visual          map[string]any `json:"visual,omitempty"`
	ImageAnalysis   *ImageAnalysis `json:"imageAnalysis,omitempty"`
	ImagePrompt     string         `json:"imagePrompt,omitempty"`

	Vocabulary         []VocabItem         `json:"vocabulary,omitempty"`
	VocabularyDetailed []VocabEntry        `json:"vocabularyDetailed,omitempty"`
	VocabularyExtended map[string][]string `json:"vocabularyExtended,omitempty"`
	Phrases            []VocabItem         `json:"phrases,omitempty"`

	Collocations []Collocation `json:"collocations,omitempty"`
	Grammar      grammarField  `json:"grammar,omitempty"`
	Practice     *Practice     `json:"practice,omitempty"`
	Exercises    []Exercise    `json:"exercises,omitempty"`
	Toefl        *Toefl        `json:"toefl,omitempty"`
	Analysis     *Analysis     `json:"analysis,omitempty"`
}

// Image normalizes the three image shapes the dataset uses: the current
// object, the legacy string, and top-level image800/image1600 fields.
func (l *Lesson) Image() Image {
	if l.RawImage.set {
		img := l.RawImage.Image
		if img.Alt == "" {
			img.Alt = l.ImageAlt
		}
		return img
	}
	if l.Image800 != "" {
		return Image{Src800: l.Image800, Src1600: l.Image1600, Alt: l.ImageAlt}
	}
	return Image{Alt: l.ImageAlt}
}

// ScenarioList returns the lesson's scenarios, lifting the legacy single
// scenario field into a one-element list.
func (l *Lesson) ScenarioList() []Scenario {
	if len(l.Scenarios) > 0 {
		return l.Scenarios
	}
	if l.Scenario != nil && !l.Scenario.IsZero() {
		return []Scenario{{
			ID:    "scn-legacy",
			Title: "Scenario",
			EN:    l.Scenario.EN,
			FA:    l.Scenario.FA,
		}}
	}
	return nil
}

// IntermediateText returns the intermediate description from whichever
// field carries it.
func (l *Lesson) IntermediateText() string {
	if l.IntermediateEnglish != "" {
		return l.IntermediateEnglish
	}
	if l.Descriptions.Intermediate != "" {
		return l.Descriptions.Intermediate
	}
	return l.Descriptions.Medium
}

// Description returns the full description from whichever field carries it.
func (l *Lesson) Description() *Text {
	if l.FullDescription != nil && !l.FullDescription.IsZero() {
		return l.FullDescription
	}
	if l.ImageDescription != nil && !l.ImageDescription.IsZero() {
		return l.ImageDescription
	}
	return nil
}

// VocabCount counts every vocabulary item across the three shapes.
func (l *Lesson) VocabCount() int {
	n := len(l.VocabularyDetailed) + len(l.Vocabulary)
	for _, words := range l.VocabularyExtended {
		n += len(words)
	}
	return n
}

// GrammarText returns the plain-string grammar note, if the document used
// that shape.
func (l *Lesson) GrammarText() string {
	return l.Grammar.Text
}

// GrammarItems returns the lesson's grammar items, if the document used
// the list shape.
func (l *Lesson) GrammarItems() []GrammarItem {
	return l.Grammar.Items
}

// GrammarItemByID returns the grammar item with the given id, or nil.
func (l *Lesson) GrammarItemByID(id string) *GrammarItem {
	for i := range l.Grammar.Items {
		if l.Grammar.Items[i].ID == id {
			return &l.Grammar.Items[i]
		}
	}
	return nil
}

// ExerciseByID returns the exercise with the given id, or nil.
func (l *Lesson) ExerciseByID(id string) *Exercise {
	for i := range l.Exercises {
		if l.Exercises[i].ID == id {
			return &l.Exercises[i]
		}
	}
	return nil
}
