package domain

// DialogueRow is one authored line of a chat group. Rows are immutable facts once loaded.
type DialogueRow struct {
	Day      int    `json:"day" yaml:"day" mapstructure:"day"`
	Group    int    `json:"group" yaml:"group" mapstructure:"group"`
	Position int    `json:"position" yaml:"position" mapstructure:"position"`
	Speaker  string `json:"speaker" yaml:"speaker" mapstructure:"speaker"`
	Text     string `json:"text" yaml:"text" mapstructure:"text"`

	// Deltas only matter on rows the player can choose.
	ContradictionDelta int `json:"contradiction_delta" yaml:"contradiction_delta" mapstructure:"contradiction_delta"`
	SuspicionDelta     int `json:"suspicion_delta" yaml:"suspicion_delta" mapstructure:"suspicion_delta"`

	// OpensChoice marks a decision point: the player-option rows right after it are offered.
	OpensChoice bool `json:"opens_choice" yaml:"opens_choice" mapstructure:"opens_choice"`
	// IsPlayerOption marks a selectable reply.
	IsPlayerOption bool `json:"is_player_option" yaml:"is_player_option" mapstructure:"is_player_option"`
	// NextPosition is where playback continues after this row (or after it is chosen).
	NextPosition int `json:"next_position" yaml:"next_position" mapstructure:"next_position"`
}

// RowFields lists the record fields of a DialogueRow in the column order of the authored table.
var RowFields = []string{
	"day",
	"group",
	"position",
	"speaker",
	"text",
	"contradiction_delta",
	"suspicion_delta",
	"opens_choice",
	"is_player_option",
	"next_position",
}
