package mission

import (
	"fmt"
	"math/rand"

	"wakeup/internal/models"
)

// MathChallenge is a generated arithmetic question and its answer.
type MathChallenge struct {
	Question string `json:"question"`
	Answer   int    `json:"-"`
}

// intIn returns a uniform value in the inclusive range [lo, hi].
func intIn(rnd *rand.Rand, lo, hi int) int {
	return lo + rnd.Intn(hi-lo+1)
}

// GenerateMath builds a question for the tier: easy is single-digit
// addition, normal mixes addition/subtraction/multiplication, hard is a
// compound a×b+c. Subtraction is always larger minus smaller so answers stay positive.
func GenerateMath(difficulty models.Difficulty, rnd *rand.Rand) MathChallenge {
	switch difficulty {
	case models.Easy:
		a := intIn(rnd, 2, 9)
		b := intIn(rnd, 2, 9)
		return MathChallenge{
			Question: fmt.Sprintf("%d + %d =", a, b),
			Answer:   a + b,
		}
	case models.Hard:
		a := intIn(rnd, 10, 19)
		b := intIn(rnd, 2, 9)
		c := intIn(rnd, 1, 9)
		return MathChallenge{
			Question: fmt.Sprintf("%d × %d + %d =", a, b, c),
			Answer:   a*b + c,
		}
	default:
		kind := rnd.Intn(5)
		if kind >= 2 {
			a := intIn(rnd, 2, 9)
			b := intIn(rnd, 2, 9)
			return MathChallenge{
				Question: fmt.Sprintf("%d × %d =", a, b),
				Answer:   a * b,
			}
		}
		a := intIn(rnd, 10, 49)
		b := intIn(rnd, 10, 49)
		if kind == 0 {
			return MathChallenge{
				Question: fmt.Sprintf("%d + %d =", a, b),
				Answer:   a + b,
			}
		}
		hi, lo := a, b
		if b > a {
			hi, lo = b, a
		}
		return MathChallenge{
			Question: fmt.Sprintf("%d - %d =", hi, lo),
			Answer:   hi - lo,
		}
	}
}

// GenerateShakeTarget draws the required shake count for the tier.
func GenerateShakeTarget(difficulty models.Difficulty, rnd *rand.Rand) int {
	switch difficulty {
	case models.Easy:
		return intIn(rnd, 20, 40)
	case models.Hard:
		return intIn(rnd, 100, 140)
	default:
		return intIn(rnd, 50, 70)
	}
}

// GenerateTapTarget draws the required tap count for the tier.
func GenerateTapTarget(difficulty models.Difficulty, rnd *rand.Rand) int {
	switch difficulty {
	case models.Easy:
		return intIn(rnd, 40, 60)
	case models.Hard:
		return intIn(rnd, 160, 240)
	default:
		return intIn(rnd, 80, 120)
	}
}

// PlaceholderSentence is shown when the custom pool was requested but holds
// nothing, so the typing mission still has a target.
const PlaceholderSentence = "You have no saved sentences yet. Add your own in settings!"

var builtinSentences = []string{
	"Success is the sum of small efforts repeated day after day",
	"If you don't walk today you will have to run tomorrow",
	"If you can't avoid it, enjoy it",
	"My future depends on what I do today",
	"Life is too beautiful not to dream",
	"Starting is half the battle, so find the courage to begin",
	"Good things will come to you like an avalanche today",
	"A positive mind is the power that breaks through any obstacle",
	"Every day in every way I am getting better and better",
	"Laughter is the cheapest investment you can make",
	"May your day shine brighter than the stars",
	"We don't laugh because we are happy, we are happy because we laugh",
	"A sound mind lives in a healthy body",
	"A morning stretch is a small miracle that changes your day",
	"Wake your body and mind with a single glass of water",
	"The moment you think it is too late is the earliest moment you have",
	"What matters is a heart that refuses to break",
	"Failure is only practice for success",
	"You were born to be loved",
	"Opportunity only visits the prepared",
	"Today's sweat becomes tomorrow's joy",
	"Make today better than yesterday",
	"Believing in yourself is the first secret of success",
	"No pain, no gain",
	"Live as you think, or you will think as you live",
	"Life is about direction, not speed",
	"The greatest risk is a life without any risk",
	"Today is another gift given to you",
	"Sleep now and you will dream; wake now and you will live your dream",
	"Your potential is far greater than you imagine",
}

// GenerateSentence picks the typing target: the user's custom pool when
// requested and non-empty, otherwise the built-in affirmations.
func GenerateSentence(useCustom bool, custom []string, rnd *rand.Rand) string {
	if useCustom {
		if len(custom) == 0 {
			return PlaceholderSentence
		}
		return custom[rnd.Intn(len(custom))]
	}
	return builtinSentences[rnd.Intn(len(builtinSentences))]
}
