package glean

// Record shapes for the built-in extraction purposes. Every required field
// must be present and type-correct after parsing or the whole batch is
// rejected; optional fields are pointers or tagged glean:"optional".

// Theme names one thematic trade idea found in a document.
type Theme struct {
	Name string `json:"name"`
}

// Company is one company mentioned inside a theme: whether it trades
// publicly, its ticker when it does, and whether the recommendation was to
// go long (true) or short (false).
type Company struct {
	Name   string  `json:"name"`
	Public bool    `json:"public"`
	Symbol *string `json:"symbol"`
	Long   *bool   `json:"long"`
}

// Prediction is one forward-looking claim extracted from audio, with the
// timeframe the speaker attached to it.
type Prediction struct {
	Prediction string `json:"prediction"`
	Timeframe  string `json:"timeframe"`
}

// VideoIdea is one stock mentioned in a video, the stance taken on it, and
// the stated reason.
type VideoIdea struct {
	Name             string `json:"name"`
	BullishOrBearish string `json:"bullish_or_bearish"`
	Why              string `json:"why"`
}

// GuruPrediction is one timestamped market call made in a video.
type GuruPrediction struct {
	Who                 string `json:"who"`
	CompanyOrAssetClass string `json:"company_or_asset_class"`
	Symbol              string `json:"symbol"`
	Timestamp           string `json:"timestamp"`
	Prediction          string `json:"prediction"`
}

// GuruReport is the full analysis of a video: who is speaking, their
// background, and every prediction they made.
type GuruReport struct {
	Who         string           `json:"who"`
	Background  string           `json:"background"`
	Predictions []GuruPrediction `json:"predictions"`
}
