package sentiment

// valences maps a word to its polarity on a [-5, 5] scale. The list is
// weighted toward the vocabulary of customer-support complaints.
var valences = map[string]float64{
	// negative
	"angry": -3, "annoyed": -2, "annoying": -2, "appalling": -4,
	"awful": -3, "bad": -3, "broken": -2, "cancel": -1, "cancelled": -1,
	"cheated": -3, "complaint": -1, "confused": -2, "damaged": -3,
	"deceived": -3, "delay": -2, "delayed": -2, "denied": -2,
	"disappointed": -3, "disappointing": -3, "dishonest": -3,
	"disputed": -2, "dissatisfied": -3, "error": -2, "fail": -2,
	"failed": -2, "failure": -2, "fault": -2, "faulty": -3, "fees": -1,
	"fraud": -4, "fraudulent": -4, "frustrated": -3, "frustrating": -3,
	"furious": -4, "horrible": -4, "ignored": -3, "impossible": -2,
	"incompetent": -3, "incorrect": -2, "inconvenient": -2, "issue": -1,
	"late": -2, "lie": -3, "lied": -3, "lost": -2, "mislead": -3,
	"misleading": -3, "missing": -2, "mistake": -2, "outrageous": -4,
	"overcharged": -3, "pathetic": -4, "poor": -2, "problem": -2,
	"refused": -2, "rejected": -2, "ridiculous": -3, "rude": -3,
	"scam": -4, "slow": -1, "stolen": -4, "stuck": -2, "terrible": -4,
	"unacceptable": -3, "unauthorized": -3, "unfair": -3, "unhappy": -3,
	"unhelpful": -2, "unprofessional": -3, "unreliable": -2,
	"unresolved": -2, "unresponsive": -2, "useless": -3, "waiting": -1,
	"worst": -4, "wrong": -2,

	// positive
	"amazing": 4, "appreciate": 2, "best": 3, "clear": 1, "correct": 1,
	"courteous": 2, "excellent": 3, "fast": 1, "fixed": 2, "friendly": 2,
	"good": 3, "grateful": 3, "great": 3, "happy": 3, "helpful": 2,
	"impressed": 3, "nice": 3, "pleased": 3, "polite": 2, "professional": 2,
	"prompt": 2, "quick": 1, "resolved": 2, "satisfied": 2, "smooth": 2,
	"thank": 2, "thanks": 2, "wonderful": 4,
}

// negations are words that flip the polarity of a nearby sentiment word.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "cannot": {},
	"cant": {}, "dont": {}, "didnt": {}, "doesnt": {}, "wont": {},
	"wasnt": {}, "isnt": {}, "couldnt": {}, "havent": {}, "hasnt": {},
	"without": {}, "neither": {}, "nor": {},
}

// modifiers scale the polarity of the following sentiment word.
var modifiers = map[string]float64{
	"very": 1.5, "extremely": 2.0, "really": 1.5, "so": 1.3,
	"totally": 1.5, "completely": 1.5, "absolutely": 1.8,
	"utterly": 1.8, "incredibly": 1.8, "somewhat": 0.7, "slightly": 0.5,
	"barely": 0.5, "hardly": 0.5, "quite": 1.2, "fairly": 0.8,
}
