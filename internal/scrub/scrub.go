// Package scrub removes reference artifacts from narrative text.
//
// Player input, loaded lore content, and outgoing responses may all carry
// leftover document references (bracketed file tags, file-ID tokens, data
// paths, citation ranges). Each artifact class has its own matcher so the
// classes can be tested in isolation; Scrub applies them in a fixed order.
package scrub

import "regexp"

var (
	// bracketedDocRef matches bracketed tags that name a document file,
	// e.g. [Covenant of Drogvyn.txt]. Case-insensitive on the extension.
	bracketedDocRef = regexp.MustCompile(`(?i)\[[^\]]*?\.(?:txt|pdf|docx)[^\]]*?\]`)
	// bracketedTag matches any remaining bracketed tag.
	bracketedTag = regexp.MustCompile(`\[[^\]]*?\]`)
	// fileIDToken matches upload identifiers such as file-AbC123_x.
	fileIDToken = regexp.MustCompile(`file-[A-Za-z0-9_-]+`)
	// dataPathFragment matches absolute sandbox paths.
	dataPathFragment = regexp.MustCompile(`/mnt/data/\S+`)
	// citationRange matches citation tokens of the form †name†L1-L9.
	citationRange = regexp.MustCompile(`†[A-Za-z0-9_]+†L\d+-L\d+`)
)

// passes is the fixed application order. Bracketed document references run
// before the general bracket matcher so the case-insensitive form is the one
// that claims extension-bearing tags.
var passes = []*regexp.Regexp{
	bracketedDocRef,
	bracketedTag,
	fileIDToken,
	dataPathFragment,
	citationRange,
}

// Scrub strips every known artifact class from text. Scrubbing is
// idempotent; already-clean text passes through unchanged.
//
// Removing one artifact can splice its surroundings into another (a
// citation cut out of "file†covenant†L1-L2-abc" leaves "file-abc"), so
// the passes repeat until the text stops changing. Each pass only
// shrinks the string, so the loop terminates.
func Scrub(text string) string {
	for {
		prev := text
		for _, pattern := range passes {
			text = pattern.ReplaceAllString(text, "")
		}
		if text == prev {
			return text
		}
	}
}

// StripBracketedDocRefs removes bracketed tags naming a document file.
func StripBracketedDocRefs(text string) string {
	return bracketedDocRef.ReplaceAllString(text, "")
}

// StripBracketedTags removes any bracketed tag.
func StripBracketedTags(text string) string {
	return bracketedTag.ReplaceAllString(text, "")
}

// StripFileIDs removes file-identifier tokens.
func StripFileIDs(text string) string {
	return fileIDToken.ReplaceAllString(text, "")
}

// StripDataPaths removes absolute sandbox path fragments.
func StripDataPaths(text string) string {
	return dataPathFragment.ReplaceAllString(text, "")
}

// StripCitations removes citation-range tokens.
func StripCitations(text string) string {
	return citationRange.ReplaceAllString(text, "")
}
