package questiongen

import (
	"fmt"
	"quizarena/internal/model"
	"reflect"
	"testing"
)

func TestGenerateIsDeterministicAndValid(t *testing.T) {
	g := New("")
	for tier := model.TierEasy; tier <= model.TierStreamer; tier++ {
		t.Run(tier.String(), func(t *testing.T) {
			for seed := uint64(0); seed < 300; seed++ {
				q1 := g.Generate(tier, seed)
				q2 := g.Generate(tier, seed)
				if !reflect.DeepEqual(q1, q2) {
					t.Fatalf("seed %d: generation not deterministic:\n%+v\n%+v", seed, q1, q2)
				}
				if err := q1.Validate(); err != nil {
					t.Fatalf("seed %d: %v (%+v)", seed, err, q1)
				}

				// replay the stream to recover the computed answer
				s := NewStream(DefaultKey, tier.String(), seed)
				fams := families[tier]
				p := fams[s.Intn(len(fams))](s)
				matches := 0
				for _, opt := range q1.Options {
					if opt == p.answer {
						matches++
					}
				}
				if matches != 1 || q1.CorrectOption() != p.answer {
					t.Fatalf("seed %d: answer %q appears %d times, correct option %q", seed, p.answer, matches, q1.CorrectOption())
				}
				if q1.Source != model.SourceProcedural {
					t.Fatalf("seed %d: source=%s", seed, q1.Source)
				}
			}
		})
	}
}

func TestGenerateVariesWithSeed(t *testing.T) {
	g := New("")
	texts := make(map[string]bool)
	for seed := uint64(0); seed < 50; seed++ {
		texts[g.Generate(model.TierEasy, seed).Text] = true
	}
	if len(texts) < 25 {
		t.Fatalf("only %d distinct questions across 50 seeds", len(texts))
	}
}

func TestGenerateKeyChangesOutput(t *testing.T) {
	a := New("one").Generate(model.TierHard, 7)
	b := New("two").Generate(model.TierHard, 7)
	if reflect.DeepEqual(a, b) {
		t.Fatal("different keys produced identical questions")
	}
}

func TestUnknownTierFallsBackToEasy(t *testing.T) {
	g := New("")
	if got, want := g.Generate(model.Tier(9), 3), g.Generate(model.TierEasy, 3); !reflect.DeepEqual(got, want) {
		t.Fatalf("unknown tier = %+v, want EASY question %+v", got, want)
	}
}

func TestAssembleFallsBackOnCollisions(t *testing.T) {
	tests := []struct {
		name string
		p    problem
		want []string
	}{
		{
			name: "ranked distractors used in order",
			p:    problem{answer: "42", distractors: []string{"32", "52", "43", "41"}},
			want: []string{"42", "32", "52", "43"},
		},
		{
			name: "duplicates replaced by numeric offsets",
			p:    problem{answer: "10", distractors: []string{"10", "11", "11", " "}},
			want: []string{"10", "11", "9", "12"},
		},
		{
			name: "custom fallback",
			p: problem{
				answer:      "1/2",
				distractors: []string{"1/2"},
				fallback:    func(k int) string { return angleValues[(k-1)%len(angleValues)] },
			},
			want: []string{"1/2", "0", "√2/2", "√3/2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assemble(tt.p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("assemble() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShuffleTracksCorrectIndex(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		opts := []string{"right", "w1", "w2", "w3"}
		idx := shuffle(NewStream("k", "shuffle", seed), opts)
		if opts[idx] != "right" {
			t.Fatalf("seed %d: index %d points at %q", seed, idx, opts[idx])
		}
	}
}

func TestDistractorsAreStructural(t *testing.T) {
	p := addition(NewStream("k", "add", 1))
	var a, b int
	if _, err := fmt.Sscanf(p.text, "What is %d + %d?", &a, &b); err != nil {
		t.Fatalf("unexpected text %q: %v", p.text, err)
	}
	if p.answer != num(a+b) {
		t.Fatalf("answer = %s, want %d", p.answer, a+b)
	}
	if p.distractors[0] != num(a+b-10) || p.distractors[2] != num(abs(a-b)) {
		t.Fatalf("distractors = %v", p.distractors)
	}
}

func TestStreamIsDeterministic(t *testing.T) {
	s1 := NewStream("key", "label", 9)
	s2 := NewStream("key", "label", 9)
	for i := 0; i < 100; i++ {
		if s1.Next() != s2.Next() {
			t.Fatalf("byte %d differs", i)
		}
	}
	for i := 0; i < 1000; i++ {
		if v := s1.Intn(4); v < 0 || v >= 4 {
			t.Fatalf("Intn(4) = %d", v)
		}
		if f := s1.Float(); f < 0 || f >= 1 {
			t.Fatalf("Float() = %f", f)
		}
	}
	if SeedFor("abc", 1) == SeedFor("abc", 2) {
		t.Fatal("seeds for different rounds collide")
	}
}
