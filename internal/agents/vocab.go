package agents

// Fixed matching vocabularies. Classification is literal case-insensitive
// substring detection over these lists; tests pin the exact contents, so
// tuning them must not touch control flow.

var positiveWords = []string{
	"love", "great", "awesome", "amazing", "excellent",
	"perfect", "best", "fantastic", "helpful", "thank",
}

var negativeWords = []string{
	"hate", "terrible", "awful", "worst", "broken",
	"disappointed", "frustrating", "useless", "scam", "refund", "buggy",
}

var requestPhrases = []string{
	"wish they added", "would be great if", "please add", "feature request",
	"can you add", "hope they add", "should add", "need a way to",
	"doesn't support", "does not support", "missing feature",
}

// buyingSignalPhrases are checked in order; the first match wins.
var buyingSignalPhrases = []string{
	"looking for",
	"recommend",
	"alternative to",
	"vs",
	"versus",
	"compare",
	"comparison",
	"which is better",
	"worth it",
	"pricing",
	"price",
	"cost",
	"how much",
	"free trial",
	"discount",
	"switch from",
	"switching from",
	"migrate from",
	"best tool",
}
