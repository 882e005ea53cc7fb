package domain

import "testing"

func TestHeuristicDetectionDeterministic(t *testing.T) {
	t.Parallel()

	// Five words, two sentences, fully unique vocabulary, one expressive
	// punctuation mark. Feature gates: richness +0.10, short sentences +0.05,
	// punctuation +0.04 on the 0.62 base.
	det := HeuristicDetection("Hello world! How are you?", ZeroJitter)

	if det.HumanProbability != 0.81 {
		t.Fatalf("human probability = %v, want 0.81", det.HumanProbability)
	}
	if det.AIProbability != 0.19 {
		t.Fatalf("ai probability = %v, want 0.19", det.AIProbability)
	}
	if det.Confidence != ConfidenceMedium {
		t.Fatalf("confidence = %q, want medium", det.Confidence)
	}
	if det.Source != SourceMock {
		t.Fatalf("source = %q, want mock", det.Source)
	}
}

func TestHeuristicDetectionEmptyText(t *testing.T) {
	t.Parallel()

	det := HeuristicDetection("", ZeroJitter)
	if det.HumanProbability != 0.5 || det.AIProbability != 0.5 {
		t.Fatalf("empty text probabilities = %v/%v, want 0.5/0.5", det.HumanProbability, det.AIProbability)
	}
	if det.Confidence != ConfidenceLow {
		t.Fatalf("confidence = %q, want low", det.Confidence)
	}
}

func TestHeuristicDetectionProbabilitiesSum(t *testing.T) {
	t.Parallel()

	texts := []string{
		"One short sentence.",
		"A much longer piece of writing with varied sentence lengths. Some are short. Others meander on and on, accumulating clauses the way rivers accumulate silt, until they finally come to rest!",
	}
	for _, text := range texts {
		det := HeuristicDetection(text, ZeroJitter)
		if sum := det.HumanProbability + det.AIProbability; sum != 1.0 {
			t.Fatalf("probabilities for %q sum to %v, want 1", text, sum)
		}
		if det.HumanProbability < 0.28 || det.HumanProbability > 0.97 {
			t.Fatalf("human probability %v outside clamp range", det.HumanProbability)
		}
	}
}

func TestClassifierConfidence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{0.9, ConfidenceHigh},
		{0.86, ConfidenceHigh},
		{0.85, ConfidenceMedium},
		{0.7, ConfidenceMedium},
		{0.65, ConfidenceLow},
		{0.5, ConfidenceLow},
	}
	for _, tc := range cases {
		if got := ClassifierConfidence(tc.score); got != tc.want {
			t.Fatalf("ClassifierConfidence(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestAnalyzeStyleDeterministic(t *testing.T) {
	t.Parallel()

	style := AnalyzeStyle("Hello world! How are you?", ZeroJitter)

	if style.Score != 0.84 {
		t.Fatalf("score = %v, want 0.84", style.Score)
	}
	if style.AvgWordLength != 4.2 {
		t.Fatalf("avg word length = %v, want 4.2", style.AvgWordLength)
	}
	if style.AvgSentenceLength != 2.5 {
		t.Fatalf("avg sentence length = %v, want 2.5", style.AvgSentenceLength)
	}
	if style.VocabularyRich != 1.0 {
		t.Fatalf("vocabulary richness = %v, want 1.0", style.VocabularyRich)
	}
	if style.WordCount != 5 || style.SentenceCount != 2 {
		t.Fatalf("counts = %d words / %d sentences, want 5/2", style.WordCount, style.SentenceCount)
	}
}

func TestSplitSentencesDropsBlanks(t *testing.T) {
	t.Parallel()

	got := splitSentences("First. Second!  ... Third?")
	want := []string{"First", "Second", "Third"}
	if len(got) != len(want) {
		t.Fatalf("splitSentences = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInitialStatusPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		trustLevel  string
		probability float64
		want        string
	}{
		{"high trust, human text", TrustHigh, 0.80, SubmissionApproved},
		{"high trust, exact threshold", TrustHigh, 0.75, SubmissionApproved},
		{"high trust, below threshold", TrustHigh, 0.74, SubmissionPending},
		{"high trust, machine text", TrustHigh, 0.30, SubmissionFlagged},
		{"medium trust, human text", TrustMedium, 0.90, SubmissionPending},
		{"low trust, machine text", TrustLow, 0.39, SubmissionFlagged},
		{"low trust, borderline", TrustLow, 0.40, SubmissionPending},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := InitialStatus(tc.trustLevel, tc.probability); got != tc.want {
				t.Fatalf("InitialStatus(%q, %v) = %q, want %q", tc.trustLevel, tc.probability, got, tc.want)
			}
		})
	}
}
