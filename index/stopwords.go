package index

// Stop words excluded from text indexing and similarity tokenization.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "has": true, "it": true, "for": true,
	"not": true, "on": true, "with": true, "as": true, "you": true,
	"do": true, "at": true, "this": true, "but": true, "by": true,
	"from": true, "they": true, "she": true, "he": true, "her": true,
	"his": true, "their": true, "will": true, "would": true, "can": true,
	"or": true, "if": true, "so": true, "your": true, "its": true,
	"them": true, "been": true, "who": true, "what": true, "when": true,
	"all": true, "into": true, "about": true,
}

// IsStopWord reports whether the token is on the fixed stop-word list.
// Tokens are expected to be lowercase already.
func IsStopWord(token string) bool {
	return stopWords[token]
}
