package types

// EvaluateInput is the input of one résumé against job evaluation
type EvaluateInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// ExtractSkillsInput is the input of a skills-only extraction
type ExtractSkillsInput struct {
	JobDescription string `json:"jobDescription"`
}

// SkillList is an ordered list of lowercase, trimmed skill names
type SkillList []string

// Weights are the final score weights used for an evaluation
type Weights struct {
	Skill          float64 `json:"skill"`
	Responsibility float64 `json:"responsibility"`
	Embedding      float64 `json:"embedding"`
}

// EvaluationResult is the outcome of one evaluation. All scores are
// percentages in [0, 100] rounded to two decimals.
type EvaluationResult struct {
	EvaluationID        string    `json:"evaluation_id"`
	ResumeSkills        SkillList `json:"resume_skills"`
	JobSkills           SkillList `json:"job_skills"`
	MissingSkills       SkillList `json:"missing_skills"`
	SkillScore          float64   `json:"skill_score"`
	ResponsibilityScore float64   `json:"responsibility_score"`
	EmbeddingScore      float64   `json:"embedding_score"`
	FinalScore          float64   `json:"final_score"`
	Weights             Weights   `json:"weights"`

	// Set when skill extraction failed and the evaluation degraded to an
	// empty skill list
	SkillExtractionError string `json:"skill_extraction_error,omitempty"`
}

// SkillsResult is the outcome of a skills-only extraction
type SkillsResult struct {
	Skills SkillList `json:"skills"`
}
