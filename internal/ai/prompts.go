package ai

import "strings"

// JobDescriptionPlaceholder marks where the job description goes in an
// extraction prompt template
const JobDescriptionPlaceholder = "{{jobDescription}}"

// DefaultSkillExtractionPrompt asks the model for a JSON object with a
// "skills" array
const DefaultSkillExtractionPrompt = `Extract all skills, tools, programming languages, software, and technologies required in this job description.
Return ONLY a JSON object like:
{ "skills": ["skill1", "skill2", ...] }
Do not include any other text.

Job Description:
` + JobDescriptionPlaceholder

// BuildSkillExtractionPrompt renders the template for one job description.
// Templates without the placeholder get the job description appended.
func BuildSkillExtractionPrompt(template, jobDescription string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultSkillExtractionPrompt
	}
	if !strings.Contains(template, JobDescriptionPlaceholder) {
		return template + "\n\nJob Description:\n" + jobDescription
	}
	return strings.ReplaceAll(template, JobDescriptionPlaceholder, jobDescription)
}
