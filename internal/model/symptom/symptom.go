package symptom

// Kind groups a symptom by the illness pattern it usually points to.
type Kind string

const (
	KindCold    Kind = "cold"
	KindFlu     Kind = "flu"
	KindWarning Kind = "warning"
)

// Category is the body region a symptom belongs to.
type Category string

const (
	CategoryHead    Category = "head"
	CategoryChest   Category = "chest"
	CategoryGeneral Category = "general"
	CategoryThroat  Category = "throat"
)

// Identifiers referenced by the triage tables.
const (
	Fever    = "fever"
	Cough    = "cough"
	Throat   = "throat"
	Breath   = "breath"
	Fatigue  = "fatigue"
	Headache = "headache"
)

// Symptom is an immutable catalog entry shown on the selection grid.
type Symptom struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        Kind     `json:"type"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
}

// Seed returns the built-in symptom catalog.
func Seed() []Symptom {
	return []Symptom{
		{ID: Fever, Title: "Fever", Description: "High temperature", Kind: KindFlu, Icon: "🌡️", Category: CategoryGeneral},
		{ID: Cough, Title: "Cough", Description: "Dry or wet cough", Kind: KindCold, Icon: "😷", Category: CategoryChest},
		{ID: Throat, Title: "Sore Throat", Description: "Pain when swallowing", Kind: KindCold, Icon: "🤒", Category: CategoryThroat},
		{ID: Breath, Title: "Breathing", Description: "Difficulty breathing", Kind: KindWarning, Icon: "🆘", Category: CategoryChest},
		{ID: Fatigue, Title: "Fatigue", Description: "Extreme tiredness", Kind: KindFlu, Icon: "😴", Category: CategoryGeneral},
		{ID: Headache, Title: "Headache", Description: "Head pain", Kind: KindFlu, Icon: "🤕", Category: CategoryHead},
	}
}
