package nlp

// stopWords is the English stop-word list used by every tokenizer consumer.
var stopWords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your",
	"yours", "yourself", "yourselves", "he", "him", "his", "himself", "she", "her",
	"hers", "herself", "it", "its", "itself", "they", "them", "their", "theirs",
	"themselves", "what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"having", "do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
	"or", "because", "as", "until", "while", "of", "at", "by", "for", "with",
	"about", "against", "between", "into", "through", "during", "before", "after",
	"above", "below", "to", "from", "up", "down", "in", "out", "on", "off", "over",
	"under", "again", "further", "then", "once", "here", "there", "when", "where",
	"why", "how", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now", "d", "ll", "m",
	"o", "re", "ve", "y", "ain", "aren", "couldn", "didn", "doesn", "hadn", "hasn",
	"haven", "isn", "ma", "mightn", "mustn", "needn", "shan", "shouldn", "wasn",
	"weren", "won", "wouldn", "also", "would", "could", "may", "might", "must",
	"shall", "upon", "yet", "however", "therefore", "thus", "via", "within",
	"without", "among", "onto", "per", "whether", "whose", "since", "though",
)

// commonWords are frequent words that carry no profile signal even when they
// are not classic stop words.
var commonWords = toSet(
	"the", "and", "but", "for", "are", "with", "this", "that", "have", "from",
	"they", "know", "want", "been", "good", "much", "some", "time", "very", "when",
	"come", "here", "just", "like", "long", "make", "many", "over", "such", "take",
	"than", "them", "well", "work",
)

// IsStopWord reports whether w (lower case) is an English stop word.
func IsStopWord(w string) bool {
	return stopWords[w]
}

// IsCommonWord reports whether w (lower case) is a stop word or an
// ultra-common word.
func IsCommonWord(w string) bool {
	return stopWords[w] || commonWords[w]
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
