package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"resumatch/internal/config"
	"resumatch/internal/types"
)

// MatchSkills returns, in input order, the job skills found in the résumé.
//
// The substring policy is plain case-insensitive containment, so "go" also
// matches inside "going". The word policy requires non-alphanumeric
// characters (or the text edges) on both sides of the match.
func MatchSkills(resumeText string, jobSkills types.SkillList, policy string) types.SkillList {
	matched := make(types.SkillList, 0, len(jobSkills))
	if len(jobSkills) == 0 {
		return matched
	}

	resume := strings.ToLower(resumeText)
	for _, skill := range jobSkills {
		needle := strings.ToLower(skill)
		if needle == "" {
			continue
		}

		var found bool
		if policy == config.MatchPolicyWord {
			found = containsWord(resume, needle)
		} else {
			found = strings.Contains(resume, needle)
		}
		if found {
			matched = append(matched, skill)
		}
	}
	return matched
}

// MissingSkills returns the required skills absent from matched, in
// required order
func MissingSkills(required, matched types.SkillList) types.SkillList {
	have := make(map[string]struct{}, len(matched))
	for _, skill := range matched {
		have[skill] = struct{}{}
	}

	missing := make(types.SkillList, 0, len(required))
	for _, skill := range required {
		if _, ok := have[skill]; !ok {
			missing = append(missing, skill)
		}
	}
	return missing
}

func containsWord(text, word string) bool {
	for offset := 0; offset <= len(text); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if isBoundary(text, start, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
