// Package types contains the read shapes returned by dashboard queries.
package types

// Category is one ordered slot on the chart axis: a political group or a
// country, with its display metadata and the points plotted in it.
type Category struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	Position int     `json:"position"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
	Points   []Point `json:"points"`
}

// Point is one plotted member. X is the category position perturbed by
// jitter; Y is the dimension-specific rebel score.
type Point struct {
	MemberID   int64    `json:"member_id"`
	Name       string   `json:"name"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Votes      int      `json:"n_votes"`
	ZScore     *float64 `json:"z_score,omitempty"`
	Outlier    bool     `json:"outlier"`
	Tooltip    string   `json:"tooltip"`
	ProfileURL string   `json:"profile_url"`
}

// PlotData is the full payload for one rendered view.
type PlotData struct {
	Period     string     `json:"period"`
	Topic      string     `json:"topic"`
	Dimension  string     `json:"dimension"`
	TotalVotes int        `json:"total_votes"`
	TotalMEPs  int        `json:"total_meps"`
	Categories []Category `json:"categories"`
}

// TopicMatch is one fuzzy search hit.
type TopicMatch struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
	Score int    `json:"score"`
}
