package questiongen

import (
	"fmt"
	"quizarena/internal/model"
	"strconv"
	"strings"
)

// DefaultKey is the HMAC key used when none is configured
const DefaultKey = "quizarena-procedural"

// problem is one generated prompt before option assembly. Distractors are
// ranked, most plausible first; fallback produces extra candidates when the
// ranked list collides.
type problem struct {
	text        string
	answer      string
	distractors []string
	fallback    func(k int) string
}

type family func(s *Stream) problem

// tier → question families
var families = [model.TierCount][]family{
	model.TierEasy:     {addition, subtraction, multiplication},
	model.TierMedium:   {linearEquation, squareOfSum, differenceOfSquares},
	model.TierHard:     {polygonAngles, hypotenuse, rectanglePerimeter},
	model.TierStreamer: {powerRule, linearIntegral, standardAngle},
}

// Generator builds offline questions. It is deterministic and total: every
// (tier, seed) pair yields a valid question.
type Generator struct {
	key string
}

func New(key string) *Generator {
	if key == "" {
		key = DefaultKey
	}
	return &Generator{key: key}
}

// Generate returns the question for tier and seed. Unknown tiers use EASY families.
func (g *Generator) Generate(tier model.Tier, seed uint64) model.Question {
	if !tier.Valid() {
		tier = model.TierEasy
	}
	s := NewStream(g.key, tier.String(), seed)
	fams := families[tier]
	p := fams[s.Intn(len(fams))](s)

	options := assemble(p)
	correct := shuffle(s, options)
	return model.Question{
		Text:         p.text,
		Options:      options,
		CorrectIndex: correct,
		Source:       model.SourceProcedural,
	}
}

// assemble returns the answer followed by three distinct distractors
func assemble(p problem) []string {
	options := make([]string, 0, model.OptionCount)
	seen := make(map[string]bool, model.OptionCount)
	add := func(opt string) {
		opt = strings.TrimSpace(opt)
		if opt == "" || seen[opt] || len(options) == model.OptionCount {
			return
		}
		seen[opt] = true
		options = append(options, opt)
	}

	add(p.answer)
	for _, d := range p.distractors {
		add(d)
	}
	fb := p.fallback
	if fb == nil {
		fb = numericOffset(p.answer)
	}
	for k := 1; len(options) < model.OptionCount; k++ {
		add(fb(k))
	}
	return options
}

// numericOffset walks answer+1, answer-1, answer+2, ... for integer answers
// and suffixes a counter otherwise.
func numericOffset(answer string) func(k int) string {
	v, err := strconv.Atoi(answer)
	if err != nil {
		return func(k int) string { return fmt.Sprintf("%s (%d)", answer, k) }
	}
	return func(k int) string {
		step := (k + 1) / 2
		if k%2 == 0 {
			step = -step
		}
		return strconv.Itoa(v + step)
	}
}

// shuffle permutes options in place and returns the new index of options[0]
func shuffle(s *Stream, options []string) int {
	correct := 0
	for i := len(options) - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	}
	return correct
}

func num(v int) string { return strconv.Itoa(v) }
