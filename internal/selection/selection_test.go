package selection

import (
	"testing"

	"github.com/omarshaarawi/hapdaily/internal/models"
)

type candidate struct {
	id     string
	metric float64
	gap    int
	wins   int
}

func (c candidate) QualifyingMetric() float64 { return c.metric }
func (c candidate) GapSignal() int            { return c.gap }
func (c candidate) FormWins() int             { return c.wins }

func ids(picks []candidate) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.id
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelect(t *testing.T) {
	oddsConfig := Config{Threshold: 0.80, MinCount: 2, MaxCount: 4}

	tests := []struct {
		name           string
		candidates     []candidate
		cfg            Config
		wantIDs        []string
		wantOutcome    models.SlateOutcome
		wantQualifying int
	}{
		{
			name: "ranked by metric with ties broken by gap",
			candidates: []candidate{
				{id: "a", metric: 0.82, gap: 3},
				{id: "b", metric: 0.91, gap: 0},
				{id: "c", metric: 0.86, gap: 2},
				{id: "d", metric: 0.82, gap: 7},
				{id: "e", metric: 0.75, gap: 10},
			},
			cfg:            oddsConfig,
			wantIDs:        []string{"b", "c", "d", "a"},
			wantOutcome:    models.OutcomeSelected,
			wantQualifying: 4,
		},
		{
			name: "below minimum returns no picks",
			candidates: []candidate{
				{id: "a", metric: 0.83},
				{id: "b", metric: 0.79},
			},
			cfg:            oddsConfig,
			wantIDs:        []string{},
			wantOutcome:    models.OutcomeBelowMinimum,
			wantQualifying: 1,
		},
		{
			name: "nothing qualifies",
			candidates: []candidate{
				{id: "a", metric: 0.5},
			},
			cfg:         oddsConfig,
			wantIDs:     []string{},
			wantOutcome: models.OutcomeNoQualifyingCandidates,
		},
		{
			name: "max count is exact",
			candidates: []candidate{
				{id: "a", metric: 0.95}, {id: "b", metric: 0.94}, {id: "c", metric: 0.93},
				{id: "d", metric: 0.92}, {id: "e", metric: 0.91}, {id: "f", metric: 0.90},
			},
			cfg:            oddsConfig,
			wantIDs:        []string{"a", "b", "c", "d"},
			wantOutcome:    models.OutcomeSelected,
			wantQualifying: 6,
		},
		{
			name: "threshold is inclusive",
			candidates: []candidate{
				{id: "a", metric: 0.80}, {id: "b", metric: 0.80},
			},
			cfg:            oddsConfig,
			wantIDs:        []string{"a", "b"},
			wantOutcome:    models.OutcomeSelected,
			wantQualifying: 2,
		},
		{
			name: "form wins break remaining ties and input order is kept",
			candidates: []candidate{
				{id: "a", metric: 0.9, gap: 1, wins: 1},
				{id: "b", metric: 0.9, gap: 1, wins: 3},
				{id: "c", metric: 0.9, gap: 1, wins: 1},
			},
			cfg:            oddsConfig,
			wantIDs:        []string{"b", "a", "c"},
			wantOutcome:    models.OutcomeSelected,
			wantQualifying: 3,
		},
		{
			name: "percentage scale",
			candidates: []candidate{
				{id: "a", metric: 72.5}, {id: "b", metric: 59.9}, {id: "c", metric: 60},
				{id: "d", metric: 88},
			},
			cfg:            Config{Threshold: 60, MinCount: 3, MaxCount: 8},
			wantIDs:        []string{"d", "a", "c"},
			wantOutcome:    models.OutcomeSelected,
			wantQualifying: 3,
		},
		{
			name:        "empty input",
			candidates:  nil,
			cfg:         oddsConfig,
			wantIDs:     []string{},
			wantOutcome: models.OutcomeNoQualifyingCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.candidates, tt.cfg)
			if !equal(ids(got.Picks), tt.wantIDs) {
				t.Errorf("Select() picks = %v, want %v", ids(got.Picks), tt.wantIDs)
			}
			if got.Outcome != tt.wantOutcome {
				t.Errorf("Select() outcome = %v, want %v", got.Outcome, tt.wantOutcome)
			}
			if got.Qualifying != tt.wantQualifying {
				t.Errorf("Select() qualifying = %d, want %d", got.Qualifying, tt.wantQualifying)
			}
			if got.Considered != len(tt.candidates) {
				t.Errorf("Select() considered = %d, want %d", got.Considered, len(tt.candidates))
			}
		})
	}
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	in := []candidate{{id: "a", metric: 0.81}, {id: "b", metric: 0.95}}
	Select(in, Config{Threshold: 0.8, MinCount: 1, MaxCount: 4})
	if in[0].id != "a" || in[1].id != "b" {
		t.Errorf("Select() reordered input to %v", ids(in))
	}
}

func TestSelectMatchCandidates(t *testing.T) {
	candidates := []models.MatchCandidate{
		{WinProbability: 0.84, StandingsGap: 5},
		{WinProbability: 0.92},
	}
	got := Select(candidates, Config{Threshold: 0.80, MinCount: 2, MaxCount: 4})
	if len(got.Picks) != 2 || got.Picks[0].WinProbability != 0.92 {
		t.Errorf("Select() picks = %+v, want 0.92 first", got.Picks)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{MinCount: 2, MaxCount: 4}, false},
		{"min equals max", Config{MinCount: 4, MaxCount: 4}, false},
		{"zero min", Config{MinCount: 0, MaxCount: 1}, false},
		{"zero max", Config{MinCount: 0, MaxCount: 0}, true},
		{"min above max", Config{MinCount: 5, MaxCount: 4}, true},
		{"negative min", Config{MinCount: -1, MaxCount: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelectFewerQualifyingThanMax(t *testing.T) {
	in := []candidate{
		{id: "p95", metric: 0.95}, {id: "p82", metric: 0.82}, {id: "p81", metric: 0.81},
		{id: "p79", metric: 0.79}, {id: "p60", metric: 0.60},
	}
	got := Select(in, Config{Threshold: 0.80, MinCount: 2, MaxCount: 4})
	if want := []string{"p95", "p82", "p81"}; !equal(ids(got.Picks), want) {
		t.Errorf("Select() picks = %v, want %v", ids(got.Picks), want)
	}
}

func TestSelectSingleQualifierBelowMinimum(t *testing.T) {
	in := []candidate{{id: "a", metric: 0.9}, {id: "b", metric: 0.3}}
	got := Select(in, Config{Threshold: 0.80, MinCount: 2, MaxCount: 4})
	if len(got.Picks) != 0 {
		t.Errorf("Select() picks = %v, want none", ids(got.Picks))
	}
	if got.Outcome != models.OutcomeBelowMinimum {
		t.Errorf("Select() outcome = %v, want %v", got.Outcome, models.OutcomeBelowMinimum)
	}
}
