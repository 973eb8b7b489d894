package insights

import "regexp"

// Polarity is the stance a memory takes toward what it describes.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Classifier labels memory content with a polarity.
type Classifier interface {
	Classify(content string) Polarity
}

var (
	negativePattern = regexp.MustCompile(`\b(do not|dont|never|must not|should not|avoid|forbid|forbidden|cannot|cant|no longer)\b`)
	positivePattern = regexp.MustCompile(`\b(always|must|should|require|required|enable|enforce|use|preferred)\b`)
)

// RegexClassifier matches directive phrases on normalized text.
// A negative phrase wins over a positive one: "do not require" is negative.
type RegexClassifier struct{}

// Classify implements Classifier.
func (RegexClassifier) Classify(content string) Polarity {
	text := NormalizeText(content)
	if text == "" {
		return PolarityNeutral
	}
	if negativePattern.MatchString(text) {
		return PolarityNegative
	}
	if positivePattern.MatchString(text) {
		return PolarityPositive
	}
	return PolarityNeutral
}
