// Package i18n holds the English and Hindi UI strings.
package i18n

import "github.com/abhisek/mathsnap/internal/prefs"

// Tip is one camera tutorial card.
type Tip struct {
	Title string
	Desc  string
}

// Strings is the set of labels for one language.
type Strings struct {
	LangBadge string

	// Tabs
	Solver    string
	History   string
	Favorites string

	// Solver
	EnterProblem string
	Placeholder  string
	Solve        string
	Solving      string
	Steps        string
	FinalResult  string

	// History
	NoHistory   string
	NoFavorites string

	// Errors
	ProblemEncountered string
	Retry              string
	Dismiss            string

	// Camera
	Camera        string
	OpeningCamera string
	CameraDenied  string
	AlignProblem  string
	HoldSteady    string
	Capture       string
	Flash         string
	Close         string
	Help          string
	NextTip       string
	StartSolving  string
	Tips          []Tip

	// Key hints
	Navigate   string
	Open       string
	ToggleFav  string
	ToggleLang string
	ToggleDark string
	Quit       string
}

var english = Strings{
	LangBadge: "EN",

	Solver:    "Solver",
	History:   "History",
	Favorites: "Favorites",

	EnterProblem: "Enter Problem",
	Placeholder:  "Type math problem here (e.g., 2x + 5 = 15)...",
	Solve:        "Solve Step-by-Step",
	Solving:      "Solving...",
	Steps:        "Steps",
	FinalResult:  "Final Result",

	NoHistory:   "No history found",
	NoFavorites: "No favorites yet",

	ProblemEncountered: "Problem Encountered",
	Retry:              "RETRY",
	Dismiss:            "Dismiss",

	Camera:        "Camera",
	OpeningCamera: "Starting camera...",
	CameraDenied:  "Please allow camera access to scan math problems.",
	AlignProblem:  "Align math problem in center",
	HoldSteady:    "Hold steady...",
	Capture:       "Capture",
	Flash:         "Flash",
	Close:         "Close",
	Help:          "Tips",
	NextTip:       "Next Tip",
	StartSolving:  "Start Solving",
	Tips: []Tip{
		{
			Title: "Perfect Alignment",
			Desc:  "Fit the entire math problem inside the blue corners. Keep your phone level for the best results.",
		},
		{
			Title: "Lighting Matters",
			Desc:  "In dim areas, use the flash toggle to brighten your paper. Clear lighting leads to faster solutions.",
		},
		{
			Title: "Stay Steady",
			Desc:  "Tapping the shutter starts a 3-second timer. Use this time to hold your hand still for a blur-free shot.",
		},
	},

	Navigate:   "Navigate",
	Open:       "Open",
	ToggleFav:  "Favorite",
	ToggleLang: "Language",
	ToggleDark: "Theme",
	Quit:       "Quit",
}

var hindi = Strings{
	LangBadge: "HI",

	Solver:    "समाधान",
	History:   "इतिहास",
	Favorites: "पसंदीदा",

	EnterProblem: "सवाल दर्ज करें",
	Placeholder:  "गणित की समस्या यहाँ लिखें...",
	Solve:        "हल देखें",
	Solving:      "हल हो रहा है...",
	Steps:        "चरण",
	FinalResult:  "अंतिम परिणाम",

	NoHistory:   "कोई इतिहास नहीं मिला",
	NoFavorites: "कोई पसंदीदा नहीं मिला",

	ProblemEncountered: "समस्या आई",
	Retry:              "पुनः प्रयास",
	Dismiss:            "बंद करें",

	Camera:        "कैमरा",
	OpeningCamera: "कैमरा शुरू हो रहा है...",
	CameraDenied:  "गणित के सवाल स्कैन करने के लिए कैमरा की अनुमति दें।",
	AlignProblem:  "सवाल को बीच में रखें",
	HoldSteady:    "स्थिर रखें...",
	Capture:       "फ़ोटो लें",
	Flash:         "फ़्लैश",
	Close:         "बंद करें",
	Help:          "सुझाव",
	NextTip:       "अगला सुझाव",
	StartSolving:  "हल करना शुरू करें",
	Tips: []Tip{
		{
			Title: "सही संरेखण",
			Desc:  "पूरे सवाल को नीले कोनों के अंदर रखें। सबसे अच्छे परिणाम के लिए फ़ोन सीधा रखें।",
		},
		{
			Title: "रोशनी ज़रूरी है",
			Desc:  "कम रोशनी में कागज़ को रोशन करने के लिए फ़्लैश चालू करें। साफ़ रोशनी से हल जल्दी मिलता है।",
		},
		{
			Title: "स्थिर रहें",
			Desc:  "शटर दबाने पर 3 सेकंड का टाइमर शुरू होता है। धुंधली फ़ोटो से बचने के लिए हाथ स्थिर रखें।",
		},
	},

	Navigate:   "चुनें",
	Open:       "खोलें",
	ToggleFav:  "पसंदीदा",
	ToggleLang: "भाषा",
	ToggleDark: "थीम",
	Quit:       "बाहर",
}

// For returns the strings for lang. Unknown languages get English.
func For(lang prefs.Language) Strings {
	if lang == prefs.Hindi {
		return hindi
	}
	return english
}
