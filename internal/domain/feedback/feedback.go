package feedback

// Record is one piece of user feedback on an answer. Records are written once and never read back.
type Record struct {
	AnswerID  string  `json:"answer_id,omitempty"`
	Question  string  `json:"question"`
	Helpful   bool    `json:"helpful"`
	Comments  string  `json:"comments,omitempty"`
	Timestamp float64 `json:"timestamp"`
}
