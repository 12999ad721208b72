package models

// Record is the atomic dataset unit: one question/answer pair destined for
// the training corpus. Records are immutable once written; regenerating the
// dataset means discarding the file and re-running the pipeline.
type Record struct {
	Question string `json:"question" validate:"required,min=1"`
	Answer   string `json:"answer" validate:"required,min=1"`
}

// RecordStats summarizes a normalization pass over candidate records.
type RecordStats struct {
	Candidates int `json:"candidates"`
	Dropped    int `json:"dropped"`
	Duplicates int `json:"duplicates"`
	Kept       int `json:"kept"`
}
