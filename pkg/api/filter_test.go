package api

import "testing"

func TestFilterSettings_Match(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterSettings
		id     string
		want   bool
	}{
		{"empty accepts all", FilterSettings{}, "anything", true},
		{"include subtree", FilterSettings{Include: []string{"sim.**"}}, "sim.soil.moisture", true},
		{"include single level", FilterSettings{Include: []string{"sim.*"}}, "sim.soil.moisture", false},
		{"include miss", FilterSettings{Include: []string{"sim.**"}}, "farm.barn", false},
		{"exclude wins", FilterSettings{Include: []string{"sim.**"}, Exclude: []string{"sim.debug.*"}}, "sim.debug.probe", false},
		{"exclude only", FilterSettings{Exclude: []string{"*Probe"}}, "GovernanceProbe", false},
		{"exclude only miss", FilterSettings{Exclude: []string{"*Probe"}}, "Weather", true},
		{"alternation", FilterSettings{Include: []string{"{sim,farm}.*"}}, "farm.barn", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(tt.id); got != tt.want {
				t.Fatalf("Match(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestFilterSettings_Func(t *testing.T) {
	if (FilterSettings{}).Func() != nil {
		t.Fatal("expected nil func for empty filter")
	}
	fn := FilterSettings{Include: []string{"a.*"}}.Func()
	if fn == nil || !fn("a.b") || fn("b.a") {
		t.Fatal("unexpected filter func behaviour")
	}
}
