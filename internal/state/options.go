// Package state holds the per-turn mutable record threaded through the
// orchestration graph, plus the option enums the theme handlers branch on.
package state

// Route names the next operation the graph dispatches to.
type Route string

const (
	RouteGenerateArtifact         Route = "generateArtifact"
	RouteRewriteArtifact          Route = "rewriteArtifact"
	RouteUpdateArtifact           Route = "updateArtifact"
	RouteUpdateHighlightedText    Route = "updateHighlightedText"
	RouteRewriteArtifactTheme     Route = "rewriteArtifactTheme"
	RouteRewriteCodeArtifactTheme Route = "rewriteCodeArtifactTheme"
	RouteCustomAction             Route = "customAction"
	RouteReplyToGeneralInput      Route = "replyToGeneralInput"
	RouteWebSearch                Route = "webSearch"
)

// Language is a target natural language for whole-document translation.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageMandarin Language = "mandarin"
	LanguageSpanish  Language = "spanish"
	LanguageFrench   Language = "french"
	LanguageHindi    Language = "hindi"
)

// ArtifactLength is a relative length adjustment for a text artifact.
type ArtifactLength string

const (
	LengthShortest ArtifactLength = "shortest"
	LengthShort    ArtifactLength = "short"
	LengthLong     ArtifactLength = "long"
	LengthLongest  ArtifactLength = "longest"
)

// lengthDescriptions is a fixed lookup table; unknown keys pass through
// unchanged as a deliberate fallback.
var lengthDescriptions = map[ArtifactLength]string{
	LengthShortest: "much shorter than it currently is",
	LengthShort:    "slightly shorter than it currently is",
	LengthLong:     "slightly longer than it currently is",
	LengthLongest:  "much longer than it currently is",
}

// Description renders the length option for a prompt.
func (l ArtifactLength) Description() string {
	if d, ok := lengthDescriptions[l]; ok {
		return d
	}
	return string(l)
}

// ReadingLevel is a target reading level for a text artifact.
type ReadingLevel string

const (
	ReadingLevelPirate   ReadingLevel = "pirate"
	ReadingLevelChild    ReadingLevel = "child"
	ReadingLevelTeenager ReadingLevel = "teenager"
	ReadingLevelCollege  ReadingLevel = "college"
	ReadingLevelPhD      ReadingLevel = "phd"
)

var readingLevelDescriptions = map[ReadingLevel]string{
	ReadingLevelChild:    "elementary school student",
	ReadingLevelTeenager: "high school student",
	ReadingLevelCollege:  "college student",
	ReadingLevelPhD:      "PhD student",
}

// Description renders the reading level for a prompt. The pirate variant
// is handled by a dedicated prompt, not this table.
func (r ReadingLevel) Description() string {
	if d, ok := readingLevelDescriptions[r]; ok {
		return d
	}
	return string(r)
}

// ProgrammingLanguage is a code artifact language tag.
type ProgrammingLanguage string

const (
	LangTypeScript ProgrammingLanguage = "typescript"
	LangJavaScript ProgrammingLanguage = "javascript"
	LangCpp        ProgrammingLanguage = "cpp"
	LangJava       ProgrammingLanguage = "java"
	LangPHP        ProgrammingLanguage = "php"
	LangPython     ProgrammingLanguage = "python"
	LangHTML       ProgrammingLanguage = "html"
	LangSQL        ProgrammingLanguage = "sql"
	LangJSON       ProgrammingLanguage = "json"
	LangRust       ProgrammingLanguage = "rust"
	LangXML        ProgrammingLanguage = "xml"
	LangClojure    ProgrammingLanguage = "clojure"
	LangCSharp     ProgrammingLanguage = "csharp"
	LangGo         ProgrammingLanguage = "go"
	LangOther      ProgrammingLanguage = "other"
)

var languageLabels = map[ProgrammingLanguage]string{
	LangTypeScript: "TypeScript",
	LangJavaScript: "JavaScript",
	LangCpp:        "C++",
	LangJava:       "Java",
	LangPHP:        "PHP",
	LangPython:     "Python",
	LangHTML:       "HTML",
	LangSQL:        "SQL",
	LangJSON:       "JSON",
	LangRust:       "Rust",
	LangXML:        "XML",
	LangClojure:    "Clojure",
	LangCSharp:     "C#",
	LangGo:         "Go",
}

// Label renders the language for a porting prompt; unknown tags pass
// through unchanged.
func (p ProgrammingLanguage) Label() string {
	if l, ok := languageLabels[p]; ok {
		return l
	}
	return string(p)
}
